package handler

import (
	"github.com/Avi18971911/tracegraph/internal/graph/frame"
	"github.com/grafana/grafana-plugin-sdk-go/data"
)

// ConvertRequestDTO carries a trace frame in the Grafana data frame JSON layout.
type ConvertRequestDTO struct {
	Frame *data.Frame `json:"frame"`
}

// NodeGraphResponseDTO is the nodes and edges frames pair for a node graph panel.
type NodeGraphResponseDTO struct {
	Nodes *data.Frame `json:"nodes"`
	Edges *data.Frame `json:"edges"`
}

type HealthResponseDTO struct {
	Status string `json:"status"`
}

func mapNodeGraphFramesToDTO(frames *frame.NodeGraphFrames) NodeGraphResponseDTO {
	return NodeGraphResponseDTO{
		Nodes: frames.Nodes,
		Edges: frames.Edges,
	}
}
