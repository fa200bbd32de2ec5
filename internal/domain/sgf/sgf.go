package sgf

// GameTree is one SGF tree: the main line of nodes plus variations.
type GameTree struct {
	Nodes    []Node
	Children []*GameTree
}

// Node holds the properties of one SGF node (B[pd], AB[aa][bb], C[...]).
type Node struct {
	Properties map[string][]string
}

type SGF struct {
	Root *GameTree
}

func NewNode() Node {
	return Node{Properties: make(map[string][]string)}
}

func (n Node) Get(key string) (string, bool) {
	values, ok := n.Properties[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (n Node) Add(key string, values ...string) {
	n.Properties[key] = append(n.Properties[key], values...)
}

// MainLine returns the nodes of the first variation at every branch.
func (s *SGF) MainLine() []Node {
	var nodes []Node
	for tree := s.Root; tree != nil; {
		nodes = append(nodes, tree.Nodes...)
		if len(tree.Children) == 0 {
			break
		}
		tree = tree.Children[0]
	}
	return nodes
}
