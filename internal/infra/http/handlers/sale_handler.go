package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/ingest"
	"github.com/xavierca1/ligue-crm/internal/infra/upload"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type SaleHandler struct {
	Sales    entity.SaleRepositoryInterface
	Clients  entity.ClientRepositoryInterface
	CreateUC *usecase.CreateSaleUseCase
	ImportUC *usecase.ImportSalesUseCase
	Receiver *upload.Receiver
	Logger   *zap.Logger
}

func NewSaleHandler(
	sales entity.SaleRepositoryInterface,
	clients entity.ClientRepositoryInterface,
	createUC *usecase.CreateSaleUseCase,
	importUC *usecase.ImportSalesUseCase,
	receiver *upload.Receiver,
	logger *zap.Logger,
) *SaleHandler {
	return &SaleHandler{
		Sales:    sales,
		Clients:  clients,
		CreateUC: createUC,
		ImportUC: importUC,
		Receiver: receiver,
		Logger:   logger,
	}
}

// Planilha corrompida é culpa do cliente; falha ao abrir o temporário é nossa.
func (h *SaleHandler) writeParserError(w http.ResponseWriter, err error) {
	if errors.Is(err, ingest.ErrUnreadable) {
		writeErrorResponse(w, http.StatusBadRequest, usecase.ErrCodeInvalidFile, "could not read file: "+err.Error())
		return
	}
	h.Logger.Error("failed to open stored upload", zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, "STORAGE_ERROR", err.Error())
}

type UploadResponse struct {
	Message string `json:"message"`
	*usecase.ImportSalesOutput
}

type SummaryResponse struct {
	ByRegion   []entity.SalesSegment `json:"byRegion"`
	ByIndustry []entity.SalesSegment `json:"byIndustry"`
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Sales.List(r.Context())
	if err != nil {
		storeError(w, h.Logger, err, "sales")
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "saleId")
	if !ok {
		return
	}
	sale, err := h.Sales.FindByID(r.Context(), id)
	if err != nil {
		storeError(w, h.Logger, err, "Sale")
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateSaleInput
	if !decodeJSON(w, r, &input) {
		return
	}
	sale, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

// Upload recebe o multipart "file" (.csv ou .xlsx) e importa as vendas.
// O temporário é apagado em qualquer caminho de saída.
func (h *SaleHandler) Upload(w http.ResponseWriter, r *http.Request) {
	policy, err := usecase.ParseDuplicatePolicy(r.URL.Query().Get("on_duplicate"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	file, err := h.Receiver.Receive(w, r, "file")
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrFileTooLarge):
			writeErrorResponse(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
		case errors.Is(err, upload.ErrMissingFile):
			writeErrorResponse(w, http.StatusBadRequest, "MISSING_FILE", err.Error())
		case errors.Is(err, upload.ErrUnsupportedType):
			writeErrorResponse(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE", err.Error())
		default:
			h.Logger.Error("failed to store upload", zap.Error(err))
			writeErrorResponse(w, http.StatusInternalServerError, "STORAGE_ERROR", err.Error())
		}
		return
	}
	defer func() {
		if err := file.Remove(); err != nil {
			h.Logger.Warn("failed to remove upload", zap.String("path", file.Path), zap.Error(err))
		}
	}()

	parser, err := file.Parser()
	if err != nil {
		h.writeParserError(w, err)
		return
	}
	defer parser.Close()

	out, err := h.ImportUC.Execute(r.Context(), usecase.ImportSalesInput{
		Parser:      parser,
		FileName:    file.Name,
		OnDuplicate: policy,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		Message:           "File uploaded and data imported successfully",
		ImportSalesOutput: out,
	})
}

func (h *SaleHandler) Summary(w http.ResponseWriter, r *http.Request) {
	byRegion, err := h.Sales.SummaryByRegion(r.Context())
	if err != nil {
		storeError(w, h.Logger, err, "sales summary")
		return
	}
	byIndustry, err := h.Sales.SummaryByIndustry(r.Context())
	if err != nil {
		storeError(w, h.Logger, err, "sales summary")
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{ByRegion: byRegion, ByIndustry: byIndustry})
}

// Clear apaga todas as vendas. Só atrás do middleware AdminToken.
func (h *SaleHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.Sales.DeleteAll(r.Context())
	if err != nil {
		writeError(w, h.Logger, &usecase.TechnicalError{Code: usecase.ErrCodeDatabase, Message: "failed to clear sales", Err: err})
		return
	}
	h.Logger.Warn("sales cleared", zap.Int64("deleted", n))
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
