// Package frame adapts traces and node graphs to Grafana data frames.
package frame

import (
	"github.com/Avi18971911/tracegraph/internal/graph/model"
	"github.com/grafana/grafana-plugin-sdk-go/data"
)

const (
	NodesFrameName = "Nodes"
	EdgesFrameName = "Edges"
)

// NodeGraphFrames is the pair of frames a node graph panel expects.
type NodeGraphFrames struct {
	Nodes *data.Frame `json:"nodes"`
	Edges *data.Frame `json:"edges"`
}

func ToNodeGraphFrames(graph *model.Graph) *NodeGraphFrames {
	nodeCount := len(graph.Nodes)
	ids := make([]string, nodeCount)
	titles := make([]string, nodeCount)
	subTitles := make([]string, nodeCount)
	mainStats := make([]string, nodeCount)
	secondaryStats := make([]string, nodeCount)
	colors := make([]float64, nodeCount)
	for i, node := range graph.Nodes {
		ids[i] = node.Id
		titles[i] = node.Title
		subTitles[i] = node.SubTitle
		mainStats[i] = node.MainStat
		secondaryStats[i] = node.SecondaryStat
		colors[i] = node.Color
	}

	edgeCount := len(graph.Edges)
	edgeIds := make([]string, edgeCount)
	targets := make([]string, edgeCount)
	sources := make([]string, edgeCount)
	for i, edge := range graph.Edges {
		edgeIds[i] = edge.Id
		targets[i] = edge.Target
		sources[i] = edge.Source
	}

	nodes := data.NewFrame(
		NodesFrameName,
		data.NewField("id", nil, ids),
		data.NewField("title", nil, titles),
		data.NewField("subtitle", nil, subTitles),
		data.NewField("mainStat", nil, mainStats),
		data.NewField("secondaryStat", nil, secondaryStats),
		data.NewField("color", nil, colors).SetConfig(&data.FieldConfig{
			DisplayName: "Self time percent",
			Color:       map[string]interface{}{"mode": "continuous-GrYlRd"},
		}),
	).SetMeta(nodeGraphMeta())

	edges := data.NewFrame(
		EdgesFrameName,
		data.NewField("id", nil, edgeIds),
		data.NewField("target", nil, targets),
		data.NewField("source", nil, sources),
	).SetMeta(nodeGraphMeta())

	return &NodeGraphFrames{Nodes: nodes, Edges: edges}
}

func nodeGraphMeta() *data.FrameMeta {
	return &data.FrameMeta{PreferredVisualization: data.VisTypeNodeGraph}
}
