package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type TaskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// Autor e responsável vêm no mesmo SELECT via LEFT JOIN.
const taskSelect = `
	SELECT t.id, t.title, t.description, t.status, t.priority, t.tags, t.start_date, t.due_date,
		t.points, t.project_id, t.author_user_id, t.assigned_user_id,
		au.username, au.email, au.team_id,
		asg.username, asg.email, asg.team_id
	FROM tasks t
	LEFT JOIN users au ON au.id = t.author_user_id
	LEFT JOIN users asg ON asg.id = t.assigned_user_id
`

func scanTask(row scanner) (*entity.Task, error) {
	var t entity.Task
	var points sql.NullInt64
	var auName, auEmail, asgName, asgEmail *string
	var auTeam, asgTeam *int64
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Tags, &t.StartDate, &t.DueDate,
		&points, &t.ProjectID, &t.AuthorUserID, &t.AssignedUserID,
		&auName, &auEmail, &auTeam,
		&asgName, &asgEmail, &asgTeam,
	); err != nil {
		return nil, err
	}
	if points.Valid {
		p := int(points.Int64)
		t.Points = &p
	}
	t.Author = joinedUser(t.AuthorUserID, auName, auEmail, auTeam)
	t.Assignee = joinedUser(t.AssignedUserID, asgName, asgEmail, asgTeam)
	return &t, nil
}

func joinedUser(id *int64, username, email *string, team *int64) *entity.User {
	if id == nil || username == nil {
		return nil
	}
	u := &entity.User{ID: *id, Username: *username, TeamID: team}
	if email != nil {
		u.Email = *email
	}
	return u
}

func (r *TaskRepository) list(ctx context.Context, where string, arg any) ([]entity.Task, error) {
	rows, err := r.DB.QueryContext(ctx, taskSelect+where+` ORDER BY t.id`, arg)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []entity.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]entity.Task, error) {
	return r.list(ctx, ` WHERE t.project_id = $1`, projectID)
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Task, error) {
	return r.list(ctx, ` WHERE t.author_user_id = $1 OR t.assigned_user_id = $1`, userID)
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*entity.Task, error) {
	t, err := scanTask(r.DB.QueryRowContext(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, classify(err)
	}
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, status, priority, tags, start_date, due_date, points,
			project_id, author_user_id, assigned_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`,
		t.Title, t.Description, t.Status, t.Priority, t.Tags, t.StartDate, t.DueDate, t.Points,
		t.ProjectID, t.AuthorUserID, t.AssignedUserID,
	).Scan(&t.ID)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id int64, status entity.TaskStatus) (*entity.Task, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE tasks SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return nil, classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, entity.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *TaskRepository) ListComments(ctx context.Context, taskID int64) ([]entity.Comment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.text, c.task_id, c.user_id, c.created_at, u.username, u.email, u.team_id
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.task_id = $1
		ORDER BY c.created_at, c.id
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []entity.Comment{}
	for rows.Next() {
		var c entity.Comment
		u := &entity.User{}
		if err := rows.Scan(&c.ID, &c.Text, &c.TaskID, &c.UserID, &c.CreatedAt, &u.Username, &u.Email, &u.TeamID); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		u.ID = c.UserID
		c.User = u
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *TaskRepository) CreateComment(ctx context.Context, c *entity.Comment) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO comments (text, task_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, c.Text, c.TaskID, c.UserID, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return classify(err)
	}
	return nil
}
