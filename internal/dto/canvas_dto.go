package dto

import "ai-productforge-be/pkg/canvas"

type CanvasResponse struct {
	Nodes []canvas.Node `json:"nodes"`
	Edges []canvas.Edge `json:"edges"`
}

type ReplaceCanvasRequest struct {
	Nodes []canvas.Node `json:"nodes" validate:"required"`
	Edges []canvas.Edge `json:"edges"`
}
