package ast

// NodeID indexes a node inside its File's arena. Node IDs are 1-based.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
