package entity

import (
	"context"
	"time"
)

type TaskStatus string

const (
	TaskStatusToDo           TaskStatus = "To Do"
	TaskStatusWorkInProgress TaskStatus = "Work In Progress"
	TaskStatusUnderReview    TaskStatus = "Under Review"
	TaskStatusCompleted      TaskStatus = "Completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusWorkInProgress, TaskStatusUnderReview, TaskStatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityUrgent  Priority = "Urgent"
	PriorityHigh    Priority = "High"
	PriorityMedium  Priority = "Medium"
	PriorityLow     Priority = "Low"
	PriorityBacklog Priority = "Backlog"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityBacklog:
		return true
	}
	return false
}

type Task struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Description    *string     `json:"description,omitempty"`
	Status         *TaskStatus `json:"status,omitempty"`
	Priority       *Priority   `json:"priority,omitempty"`
	Tags           *string     `json:"tags,omitempty"`
	StartDate      *time.Time  `json:"startDate,omitempty"`
	DueDate        *time.Time  `json:"dueDate,omitempty"`
	Points         *int        `json:"points,omitempty"`
	ProjectID      int64       `json:"projectId"`
	AuthorUserID   *int64      `json:"authorUserId,omitempty"`
	AssignedUserID *int64      `json:"assignedUserId,omitempty"`

	Author   *User     `json:"author,omitempty"`
	Assignee *User     `json:"assignee,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	TaskID    int64     `json:"taskId"`
	UserID    int64     `json:"userId"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type TaskRepositoryInterface interface {
	ListByProject(ctx context.Context, projectID int64) ([]Task, error)
	ListByUser(ctx context.Context, userID int64) ([]Task, error)
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id int64) (*Task, error)
	UpdateStatus(ctx context.Context, id int64, status TaskStatus) (*Task, error)
	ListComments(ctx context.Context, taskID int64) ([]Comment, error)
	CreateComment(ctx context.Context, c *Comment) error
}
