package service

import (
	"github.com/hanifn/tagihin/internal/domain"
)

// Lookup errors - use domain.ENOTFOUND
var (
	ErrSessionNotFound = domain.Errorf(domain.EUNAUTHORIZED, "", "Session not found")
)

// Validation errors - use domain.EINVALID
var (
	ErrInvalidUserID    = domain.Errorf(domain.EINVALID, "", "Invalid user ID")
	ErrInvalidInvoiceID = domain.Errorf(domain.EINVALID, "", "Invalid invoice ID")
)

// Invoice numbering
var (
	ErrInvoiceNumberGeneration = domain.Errorf(domain.EINTERNAL, "", "Failed to generate invoice number")
)
