package handler

import (
	"github.com/gin-gonic/gin"

	"billdesk/internal/domain"
	"billdesk/internal/service"
	"billdesk/internal/validator"
)

// ContactHandler serves the supplier and party endpoints. One instance is
// registered per contact kind.
type ContactHandler struct {
	kind           domain.ContactKind
	contactService service.ContactService
	billService    service.BillService
}

// NewContactHandler creates a new ContactHandler for kind.
func NewContactHandler(kind domain.ContactKind, contactService service.ContactService, billService service.BillService) *ContactHandler {
	return &ContactHandler{kind: kind, contactService: contactService, billService: billService}
}

// Create handles POST /api/v1/supplier and POST /api/v1/party
// @Summary Create a supplier or party
// @Description Creates the address, phone and contact in one transaction.
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Contact details"
// @Success 201 {object} Response{data=domain.Contact} "Contact created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "GSTIN already registered"
// @Security SessionCookie
// @Router /supplier [post]
// @Router /party [post]
func (h *ContactHandler) Create(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}

	input, fieldErrs := validator.ValidateContact(raw)
	if len(fieldErrs) > 0 {
		RespondValidation(c, fieldErrs)
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), h.kind, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, h.kind.Label()+" created successfully", contact)
}

// List handles GET /api/v1/supplier and GET /api/v1/party
// @Summary List suppliers or parties
// @Tags contacts
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Contact,meta=PagMeta} "Contacts with bill counts"
// @Security SessionCookie
// @Router /supplier [get]
// @Router /party [get]
func (h *ContactHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	contacts, total, err := h.contactService.List(c.Request.Context(), h.kind, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, h.kind.Label()+" list", contacts, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Match handles GET /api/v1/supplier/match and GET /api/v1/party/match
// @Summary Find suppliers or parties by name or GSTIN
// @Tags contacts
// @Produce json
// @Param name query string false "Name substring (case-insensitive)"
// @Param gstin query string false "Exact GSTIN"
// @Success 200 {object} Response{data=[]domain.Contact} "Candidates"
// @Security SessionCookie
// @Router /supplier/match [get]
// @Router /party/match [get]
func (h *ContactHandler) Match(c *gin.Context) {
	found, err := h.contactService.Match(c.Request.Context(), h.kind, c.Query("name"), c.Query("gstin"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, h.kind.Label()+" candidates", found)
}

// GetByID handles GET /api/v1/supplier/:id and GET /api/v1/party/:id
// @Summary Get a supplier or party
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID (UUID)"
// @Success 200 {object} Response{data=domain.Contact} "Contact with address and phone"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security SessionCookie
// @Router /supplier/{id} [get]
// @Router /party/{id} [get]
func (h *ContactHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, string(h.kind))
	if !ok {
		return
	}

	contact, err := h.contactService.GetByID(c.Request.Context(), h.kind, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, h.kind.Label(), contact)
}

// Update handles PUT /api/v1/supplier/:id and PUT /api/v1/party/:id
// @Summary Update a supplier or party
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID (UUID)"
// @Param request body ContactRequest true "Fields to update"
// @Success 200 {object} Response{data=domain.Contact} "Contact updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Failure 409 {object} ErrorResponseBody "GSTIN already registered"
// @Security SessionCookie
// @Router /supplier/{id} [put]
// @Router /party/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := parseID(c, string(h.kind))
	if !ok {
		return
	}
	raw, ok := readBody(c)
	if !ok {
		return
	}

	upd, fieldErrs := validator.ValidateContactUpdate(raw)
	if len(fieldErrs) > 0 {
		RespondValidation(c, fieldErrs)
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), h.kind, id, upd)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, h.kind.Label()+" updated successfully", contact)
}

// Delete handles DELETE /api/v1/supplier/:id and DELETE /api/v1/party/:id
// @Summary Delete a supplier or party
// @Description Refused while any bill references the contact. Admin only.
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Contact deleted"
// @Failure 400 {object} ErrorResponseBody "Contact has bills"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security SessionCookie
// @Router /supplier/{id} [delete]
// @Router /party/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, string(h.kind))
	if !ok {
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), h.kind, id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, h.kind.Label()+" deleted successfully", nil)
}

// Bills handles GET /api/v1/supplier/:id/bills and GET /api/v1/party/:id/bills
// @Summary Bills of a supplier or party
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID (UUID)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Bill,meta=PagMeta} "Bills"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security SessionCookie
// @Router /supplier/{id}/bills [get]
// @Router /party/{id}/bills [get]
func (h *ContactHandler) Bills(c *gin.Context) {
	id, ok := parseID(c, string(h.kind))
	if !ok {
		return
	}
	offset, limit := pagination(c)

	bills, total, err := h.billService.ListByContact(c.Request.Context(), h.kind, id, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, h.kind.Label()+" bills", bills, PagMeta{Total: total, Offset: offset, Limit: limit})
}
