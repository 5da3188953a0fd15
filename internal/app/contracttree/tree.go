// Package contracttree собирает договоры и дополнительные соглашения в дерево.
package contracttree

import (
	"errors"
	"fmt"

	"paytrack/internal/app/ds"
)

var (
	ErrInvalidHierarchy = errors.New("contract hierarchy contains a cycle")
	ErrParentNotFound   = errors.New("parent contract not found")
)

// Node - договор вместе с дочерними договорами
type Node struct {
	ds.Contract
	Children []Node `json:"children"`
}

type builder struct {
	flat     []ds.Contract
	roots    []int
	children map[uint][]int
	onPath   map[uint]bool
}

// BuildTree строит лес договоров, начиная с договоров, у которых родитель равен parentID
// (nil - корневые договоры). Порядок на каждом уровне совпадает с порядком во входном списке.
// Входной список не изменяется. Договор, ссылающийся на несуществующего родителя, в лес не попадает.
func BuildTree(flat []ds.Contract, parentID *uint) ([]Node, error) {
	b := &builder{
		flat:     flat,
		children: make(map[uint][]int),
		onPath:   make(map[uint]bool),
	}
	for i, c := range flat {
		if c.ParentContractID == nil {
			b.roots = append(b.roots, i)
			continue
		}
		pid := *c.ParentContractID
		b.children[pid] = append(b.children[pid], i)
	}

	if parentID != nil {
		b.onPath[*parentID] = true
	}
	return b.build(parentID)
}

func (b *builder) build(parentID *uint) ([]Node, error) {
	indexes := b.roots
	if parentID != nil {
		indexes = b.children[*parentID]
	}

	nodes := make([]Node, 0, len(indexes))
	for _, i := range indexes {
		c := b.flat[i]
		if b.onPath[c.ID] {
			return nil, fmt.Errorf("%w: contract %d is its own ancestor", ErrInvalidHierarchy, c.ID)
		}

		b.onPath[c.ID] = true
		children, err := b.build(&c.ID)
		delete(b.onPath, c.ID)
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, Node{Contract: c, Children: children})
	}
	return nodes, nil
}

// Flatten обходит лес в прямом порядке
func Flatten(forest []Node) []ds.Contract {
	var out []ds.Contract
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			out = append(out, n.Contract)
			walk(n.Children)
		}
	}
	walk(forest)
	return out
}

// Unreachable возвращает договоры из flat, которые не попали в лес
func Unreachable(flat []ds.Contract, forest []Node) []ds.Contract {
	seen := make(map[uint]bool)
	for _, c := range Flatten(forest) {
		seen[c.ID] = true
	}

	var lost []ds.Contract
	for _, c := range flat {
		if !seen[c.ID] {
			lost = append(lost, c)
		}
	}
	return lost
}

// CheckParent проверяет, что договор id можно перевесить на newParent, не создав цикл.
// Для нового договора id = 0.
func CheckParent(flat []ds.Contract, id uint, newParent *uint) error {
	if newParent == nil {
		return nil
	}
	if id != 0 && *newParent == id {
		return fmt.Errorf("%w: contract %d cannot be its own parent", ErrInvalidHierarchy, id)
	}

	parents := make(map[uint]*uint, len(flat))
	for _, c := range flat {
		parents[c.ID] = c.ParentContractID
	}
	if _, ok := parents[*newParent]; !ok {
		return fmt.Errorf("%w: %d", ErrParentNotFound, *newParent)
	}

	visited := make(map[uint]bool)
	for cur := newParent; cur != nil; cur = parents[*cur] {
		if id != 0 && *cur == id {
			return fmt.Errorf("%w: contract %d is an ancestor of %d", ErrInvalidHierarchy, id, *newParent)
		}
		if visited[*cur] {
			return fmt.Errorf("%w: existing chain above contract %d loops", ErrInvalidHierarchy, *newParent)
		}
		visited[*cur] = true
	}
	return nil
}
