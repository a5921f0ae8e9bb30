package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/ingest"
)

const DefaultMaxBytes = 5 << 20

var (
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrMissingFile     = errors.New("no file uploaded")
	ErrUnsupportedType = errors.New("only .csv and .xlsx files are accepted")
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var csvContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/vnd.ms-excel": true,
	"text/plain":               true,
	"application/octet-stream": true,
	"":                         true,
}

var xlsxContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/octet-stream": true,
	"application/zip":          true,
	"":                         true,
}

// Receiver guarda o arquivo enviado num temporário em Dir.
type Receiver struct {
	Dir      string
	MaxBytes int64
}

func NewReceiver(dir string, maxBytes int64) *Receiver {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Receiver{Dir: dir, MaxBytes: maxBytes}
}

// File é o upload já salvo em disco. Quem recebe deve chamar Remove.
type File struct {
	Name   string
	Path   string
	Size   int64
	Format Format
}

// LocalFile descreve um arquivo já em disco (CLI). Remove não deve ser chamado.
func LocalFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		format = FormatCSV
	case ".xlsx":
		format = FormatXLSX
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedType)
	}
	return &File{Name: filepath.Base(path), Path: path, Size: info.Size(), Format: format}, nil
}

func (f *File) Open() (*os.File, error) {
	return os.Open(f.Path)
}

func (f *File) Remove() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Parser abre o arquivo e devolve o leitor certo para o formato.
// Fechar o Parser fecha o arquivo.
func (f *File) Parser() (ingest.Parser, error) {
	fh, err := f.Open()
	if err != nil {
		return nil, err
	}
	switch f.Format {
	case FormatXLSX:
		p, err := ingest.NewXLSXParser(fh)
		fh.Close()
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return &fileParser{Parser: ingest.NewCSVParser(fh), f: fh}, nil
	}
}

type fileParser struct {
	ingest.Parser
	f *os.File
}

func (p *fileParser) Close() error {
	perr := p.Parser.Close()
	if err := p.f.Close(); err != nil {
		return err
	}
	return perr
}

// Receive lê o campo multipart e copia o conteúdo para um temporário.
func (rc *Receiver) Receive(w http.ResponseWriter, r *http.Request, field string) (*File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, rc.MaxBytes)
	if err := r.ParseMultipartForm(rc.MaxBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
			return nil, ErrFileTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, ErrMissingFile
		}
		return nil, fmt.Errorf("reading multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	part, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrMissingFile
		}
		return nil, fmt.Errorf("reading form file: %w", err)
	}
	defer part.Close()

	format, err := detectFormat(header)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(rc.Dir, "sales-*."+string(format))
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	size, err := io.Copy(tmp, part)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("writing temp file: %w", err)
	}

	return &File{
		Name:   filepath.Base(header.Filename),
		Path:   tmp.Name(),
		Size:   size,
		Format: format,
	}, nil
}

func detectFormat(header *multipart.FileHeader) (Format, error) {
	ct := header.Header.Get("Content-Type")
	if ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			ct = mt
		}
	}

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		if csvContentTypes[ct] {
			return FormatCSV, nil
		}
	case ".xlsx":
		if xlsxContentTypes[ct] {
			return FormatXLSX, nil
		}
	}
	return "", ErrUnsupportedType
}
