package handler

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"billdesk/internal/domain"
	"billdesk/internal/export"
	"billdesk/internal/service"
	"billdesk/internal/validator"
)

const billImageField = "billImage"

var exportContentTypes = map[service.ExportFormat]string{
	service.ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	service.ExportCSV:  "text/csv; charset=utf-8",
}

// BillHandler handles bill extraction, matching and CRUD endpoints.
type BillHandler struct {
	billService       service.BillService
	contactService    service.ContactService
	extractionService service.ExtractionService
	maxImageBytes     int64
}

// NewBillHandler creates a new BillHandler. maxImageBytes bounds the decoded
// image; request bodies may be up to twice that to leave room for base64.
func NewBillHandler(
	billService service.BillService,
	contactService service.ContactService,
	extractionService service.ExtractionService,
	maxImageBytes int64,
) *BillHandler {
	return &BillHandler{
		billService:       billService,
		contactService:    contactService,
		extractionService: extractionService,
		maxImageBytes:     maxImageBytes,
	}
}

// Process handles POST /api/v1/bill/process
// @Summary Extract bill data from an image
// @Description Accepts JSON {"billImage": "<data URL or base64>"} or a multipart form with a billImage file. The image is read by the configured vision model.
// @Tags bills
// @Accept json,mpfd
// @Produce json
// @Param request body ProcessBillRequest false "Base64 image"
// @Param billImage formData file false "Bill image (jpg, png, webp)"
// @Success 200 {object} Response{data=service.ExtractResult} "Extracted bill data"
// @Failure 400 {object} ErrorResponseBody "Missing, unsupported or oversized image"
// @Failure 500 {object} ErrorResponseBody "Extraction failed"
// @Security SessionCookie
// @Router /bill/process [post]
func (h *BillHandler) Process(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*h.maxImageBytes)

	data, err := h.readImage(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = domain.ErrImageTooLarge
		}
		HandleError(c, err)
		return
	}

	result, err := h.extractionService.ExtractUpload(c.Request.Context(), data)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, "Bill processed successfully", result)
}

func (h *BillHandler) readImage(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile(billImageField)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return nil, fmt.Errorf("%s file is required: %w", billImageField, domain.ErrInvalidInput)
			}
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, err
			}
			return nil, fmt.Errorf("malformed multipart form: %v: %w", err, domain.ErrInvalidInput)
		}
		if fh.Size > h.maxImageBytes {
			return nil, domain.ErrImageTooLarge
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("billHandler.readImage: %w", err)
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	var req ProcessBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("body must be JSON with a %s field: %w", billImageField, domain.ErrInvalidInput)
	}
	return decodeImagePayload(req.BillImage)
}

// decodeImagePayload accepts a data URL ("data:image/png;base64,...") or a
// bare base64 string.
func decodeImagePayload(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%s is required: %w", billImageField, domain.ErrInvalidInput)
	}
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 || !strings.Contains(s[:i], ";base64") {
			return nil, fmt.Errorf("%s must be a base64 data URL: %w", billImageField, domain.ErrInvalidInput)
		}
		s = s[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(s); err != nil {
			return nil, fmt.Errorf("%s is not valid base64: %w", billImageField, domain.ErrInvalidInput)
		}
	}
	return data, nil
}

// Match handles POST /api/v1/bill/match
// @Summary Find existing suppliers and parties for extracted data
// @Description Returns candidates matching the supplier and party of a BillData by name (substring, case-insensitive) or exact GSTIN.
// @Tags bills
// @Accept json
// @Produce json
// @Param request body domain.BillData true "Extracted bill data"
// @Success 200 {object} Response{data=domain.MatchCandidates} "Candidates"
// @Failure 400 {object} ErrorResponseBody "Invalid body"
// @Security SessionCookie
// @Router /bill/match [post]
func (h *BillHandler) Match(c *gin.Context) {
	var data domain.BillData
	if err := c.ShouldBindJSON(&data); err != nil {
		RespondValidation(c, bindError(err))
		return
	}

	candidates, err := h.contactService.MatchBill(c.Request.Context(), &data)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, "Match candidates", candidates)
}

// Save handles POST /api/v1/bill/save
// @Summary Save a reviewed bill
// @Description Validates the submission, then creates any new supplier or party, the bill and its items in one transaction.
// @Tags bills
// @Accept json
// @Produce json
// @Param request body SaveBillRequest true "Bill submission"
// @Success 201 {object} Response{data=domain.Bill} "Bill saved"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Supplier or party not found"
// @Failure 409 {object} ErrorResponseBody "Duplicate bill or GSTIN"
// @Failure 413 {object} ErrorResponseBody "Body larger than 1 MiB"
// @Failure 503 {object} ErrorResponseBody "Store timeout"
// @Security SessionCookie
// @Router /bill/save [post]
func (h *BillHandler) Save(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}

	sub, fieldErrs := validator.ValidateBill(raw)
	if len(fieldErrs) > 0 {
		RespondValidation(c, fieldErrs)
		return
	}

	bill, err := h.billService.Save(c.Request.Context(), sub)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, "Bill saved successfully", bill)
}

// List handles GET /api/v1/bill
// @Summary List bills
// @Tags bills
// @Produce json
// @Param q query string false "Bill number, supplier or party name"
// @Param payment_status query string false "paid or unpaid"
// @Param supplier_id query string false "Supplier ID"
// @Param party_id query string false "Party ID"
// @Param from query string false "Earliest bill date (YYYY-MM-DD)"
// @Param to query string false "Latest bill date (YYYY-MM-DD)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Bill,meta=PagMeta} "Bills"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Security SessionCookie
// @Router /bill [get]
func (h *BillHandler) List(c *gin.Context) {
	filter, fieldErrs := billFilter(c)
	if len(fieldErrs) > 0 {
		RespondValidation(c, fieldErrs)
		return
	}
	filter.Offset, filter.Limit = pagination(c)

	bills, total, err := h.billService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, "Bills", bills, PagMeta{Total: total, Offset: filter.Offset, Limit: filter.Limit})
}

// Export handles GET /api/v1/bill/export
// @Summary Export bills
// @Description Download the bills matching the list filters as an XLSX workbook (sheets Bills and Items) or a CSV file.
// @Tags bills
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Param format query string false "xlsx or csv" default(xlsx)
// @Param q query string false "Bill number, supplier or party name"
// @Param payment_status query string false "paid or unpaid"
// @Param from query string false "Earliest bill date (YYYY-MM-DD)"
// @Param to query string false "Latest bill date (YYYY-MM-DD)"
// @Success 200 {file} file "Export file"
// @Failure 400 {object} ErrorResponseBody "Invalid filter or format"
// @Security SessionCookie
// @Router /bill/export [get]
func (h *BillHandler) Export(c *gin.Context) {
	filter, fieldErrs := billFilter(c)
	if len(fieldErrs) > 0 {
		RespondValidation(c, fieldErrs)
		return
	}
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportXLSX))))
	contentType, ok := exportContentTypes[format]
	if !ok {
		RespondValidation(c, validator.FieldErrors{"format": `must be either "xlsx" or "csv"`})
		return
	}

	var buf bytes.Buffer
	if err := h.billService.Export(c.Request.Context(), filter, format, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("bills", string(format), time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// GetByID handles GET /api/v1/bill/:id
// @Summary Get bill by ID
// @Tags bills
// @Produce json
// @Param id path string true "Bill ID (UUID)"
// @Success 200 {object} Response{data=domain.Bill} "Bill with items, supplier and party"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Bill not found"
// @Security SessionCookie
// @Router /bill/{id} [get]
func (h *BillHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "bill")
	if !ok {
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, "Bill", bill)
}

// Update handles PUT /api/v1/bill/:id
// @Summary Update a bill
// @Description Partial update; a present items array replaces every line item.
// @Tags bills
// @Accept json
// @Produce json
// @Param id path string true "Bill ID (UUID)"
// @Param request body UpdateBillRequest true "Fields to update"
// @Success 200 {object} Response{data=domain.Bill} "Bill updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Bill, supplier or party not found"
// @Failure 409 {object} ErrorResponseBody "Duplicate bill"
// @Security SessionCookie
// @Router /bill/{id} [put]
func (h *BillHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "bill")
	if !ok {
		return
	}
	raw, ok := readBody(c)
	if !ok {
		return
	}

	upd, fieldErrs := validator.ValidateBillUpdate(raw)
	if len(fieldErrs) > 0 {
		RespondValidation(c, fieldErrs)
		return
	}

	bill, err := h.billService.Update(c.Request.Context(), id, upd)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, "Bill updated successfully", bill)
}

// Delete handles DELETE /api/v1/bill/:id
// @Summary Delete a bill
// @Tags bills
// @Produce json
// @Param id path string true "Bill ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Bill deleted"
// @Failure 404 {object} ErrorResponseBody "Bill not found"
// @Security SessionCookie
// @Router /bill/{id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "bill")
	if !ok {
		return
	}

	if err := h.billService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, "Bill deleted successfully", nil)
}

// billFilter reads the list filters shared by List and Export.
func billFilter(c *gin.Context) (domain.BillFilter, validator.FieldErrors) {
	errs := validator.FieldErrors{}
	filter := domain.BillFilter{Query: strings.TrimSpace(c.Query("q"))}

	if s := c.Query("payment_status"); s != "" {
		status, ok := domain.ParsePaymentStatus(s)
		if !ok {
			errs["payment_status"] = `must be either "paid" or "unpaid"`
		}
		filter.PaymentStatus = status
	}
	for key, dst := range map[string]**uuid.UUID{"supplier_id": &filter.SupplierID, "party_id": &filter.PartyID} {
		if s := c.Query(key); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				errs[key] = "must be a valid UUID"
				continue
			}
			*dst = &id
		}
	}
	for key, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		if s := c.Query(key); s != "" {
			t, err := validator.ParseDate(s)
			if err != nil {
				errs[key] = "must be a valid date (YYYY-MM-DD)"
				continue
			}
			*dst = &t
		}
	}
	return filter, errs
}
