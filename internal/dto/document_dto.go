package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateDocumentRequest struct {
	ProjectId uuid.UUID `json:"project_id" validate:"required"`
}

type DocumentResponse struct {
	Id           uuid.UUID `json:"id"`
	ProjectId    uuid.UUID `json:"project_id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	MdPath       string    `json:"md_path"`
	PdfPath      string    `json:"pdf_path,omitempty"`
	PdfAvailable bool      `json:"pdf_available"`
	CreatedAt    time.Time `json:"created_at"`
}
