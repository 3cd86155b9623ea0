package domain

// DocumentType identifies the logistics document variant.
type DocumentType string

const (
	TypeInvoice        DocumentType = "invoice"
	TypeDeliveryNote   DocumentType = "delivery_note"
	TypeWarehouseLabel DocumentType = "warehouse_label"
	TypeUnknown        DocumentType = "unknown"
)

// ValidDocumentTypes enumerates the variants a document body may carry.
// TypeUnknown is a detection result, never a stored variant.
var ValidDocumentTypes = map[DocumentType]bool{
	TypeInvoice:        true,
	TypeDeliveryNote:   true,
	TypeWarehouseLabel: true,
}

// ParseDocumentType normalizes a string into a DocumentType, defaulting
// to TypeUnknown for anything unrecognized.
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(s) {
	case TypeInvoice, TypeDeliveryNote, TypeWarehouseLabel:
		return DocumentType(s)
	default:
		return TypeUnknown
	}
}

// JobStatus represents the lifecycle of a background scan job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)
