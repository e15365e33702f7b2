package model

type GraphNode struct {
	Id            string  `json:"id"`
	Title         string  `json:"title"`
	SubTitle      string  `json:"subtitle"`
	MainStat      string  `json:"mainStat"`
	SecondaryStat string  `json:"secondaryStat"`
	Color         float64 `json:"color"`
}

type GraphEdge struct {
	Id     string `json:"id"`
	Target string `json:"target"`
	Source string `json:"source"`
}

type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Stats holds the display strings of a node.
type Stats struct {
	Main      string
	Secondary string
}
