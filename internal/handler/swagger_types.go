package handler

import (
	"billdesk/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@billdesk.local"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// CreateUserRequest represents the create user and register request body.
type CreateUserRequest struct {
	Name     string          `json:"name" binding:"required" example:"Asha Patil"`
	Email    string          `json:"email" binding:"required" example:"asha@billdesk.local"`
	Password string          `json:"password" binding:"required" example:"securepassword123"`
	Role     domain.UserRole `json:"role" example:"STAFF"`
}

// UpdateUserRequest represents the update user request body.
type UpdateUserRequest struct {
	Name     *string          `json:"name" example:"Asha P."`
	Email    *string          `json:"email" example:"asha.p@billdesk.local"`
	Role     *domain.UserRole `json:"role" example:"ADMIN"`
	Password *string          `json:"password" example:"newpassword456"`
}

// ProcessBillRequest is the JSON form of POST /bill/process.
type ProcessBillRequest struct {
	BillImage string `json:"billImage" example:"data:image/jpeg;base64,/9j/4AAQSkZJRgABAQ..."`
}

// AddressRequest represents a contact address.
type AddressRequest struct {
	Street   *string `json:"street" example:"12 MG Road"`
	City     *string `json:"city" example:"Pune"`
	Post     *string `json:"post" example:"Shivajinagar"`
	District *string `json:"district" example:"Pune"`
	State    string  `json:"state" binding:"required" example:"Maharashtra"`
	Pincode  string  `json:"pincode" binding:"required" example:"411005"`
	StCode   *string `json:"st_code" example:"27"`
}

// PhoneRequest represents contact phone numbers. At least one mobile is required.
type PhoneRequest struct {
	Office []string `json:"office" example:"020-25501234"`
	Mobile []string `json:"mobile" binding:"required" example:"9876543210"`
}

// ContactRequest represents the supplier or party create and update body.
type ContactRequest struct {
	Name    string         `json:"name" binding:"required" example:"Acme Traders"`
	GSTIN   string         `json:"gstin" binding:"required" example:"27AAPFU0939F1ZV"`
	Address AddressRequest `json:"address"`
	Phone   PhoneRequest   `json:"phone"`
}

// BillItemRequest represents one line item.
type BillItemRequest struct {
	Name     string  `json:"name" binding:"required" example:"M8 hex bolt"`
	HSN      string  `json:"hsn" binding:"required" example:"7318"`
	Quantity float64 `json:"quantity" binding:"required" example:"10"`
	Rate     float64 `json:"rate" binding:"required" example:"12.5"`
	Amount   float64 `json:"amount" binding:"required" example:"125"`
}

// SaveBillRequest represents the bill submission. Exactly one of supplierId
// and newSupplier, and exactly one of partyId and newParty, must be set.
type SaveBillRequest struct {
	BillNumber        string            `json:"bill_number" binding:"required" example:"INV-2024-001"`
	BillDate          string            `json:"bill_date" binding:"required" example:"2024-01-15"`
	Location          string            `json:"location" binding:"required" example:"Pune"`
	TotalBilledAmount float64           `json:"total_billed_amount" binding:"required" example:"125"`
	PaymentStatus     string            `json:"payment_status" binding:"required" example:"unpaid"`
	SupplierID        string            `json:"supplierId" example:"550e8400-e29b-41d4-a716-446655440000"`
	NewSupplier       *ContactRequest   `json:"newSupplier"`
	PartyID           string            `json:"partyId" example:"660e8400-e29b-41d4-a716-446655440001"`
	NewParty          *ContactRequest   `json:"newParty"`
	Items             []BillItemRequest `json:"items" binding:"required"`
}

// UpdateBillRequest represents a partial bill update. A present items array
// replaces every line item.
type UpdateBillRequest struct {
	BillNumber        *string           `json:"bill_number" example:"INV-2024-001A"`
	BillDate          *string           `json:"bill_date" example:"2024-01-16"`
	Location          *string           `json:"location" example:"Mumbai"`
	TotalBilledAmount *float64          `json:"total_billed_amount" example:"250"`
	PaymentStatus     *string           `json:"payment_status" example:"paid"`
	SupplierID        *string           `json:"supplierId"`
	PartyID           *string           `json:"partyId"`
	Items             []BillItemRequest `json:"items"`
}

// --- Response Types ---

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message" example:"Bill saved successfully"`
	Status  int         `json:"status" example:"200"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response. Errors maps field paths such as
// "items[0].rate" to messages on validation failures.
type ErrorResponseBody struct {
	Success bool              `json:"success" example:"false"`
	Message string            `json:"message" example:"Validation failed"`
	Status  int               `json:"status" example:"400"`
	Errors  map[string]string `json:"errors,omitempty"`
}
