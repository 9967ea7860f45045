// Command gcdemo builds a small managed object graph, collects it, and
// reports collector and Go runtime heap statistics before and after -
// structured the same way the teacher's parcel_server command reports
// memory-manager statistics around its own workload, via flag-parsed
// options and runtime/metrics heap sampling.
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime/metrics"

	"github.com/lutze-go/lutze"
	"github.com/lutze-go/lutze/container"
)

type node struct {
	lutze.Base
	name     string
	children []lutze.Ptr[node]
}

func (n *node) MarkMembers(c *lutze.Collector) {
	for _, child := range n.children {
		lutze.MarkPtr(c, child)
	}
}

func main() {
	fanout := flag.Int("fanout", 4, "children per level")
	depth := flag.Int("depth", 6, "tree depth")
	flag.Parse()

	printHeapObjects("before")

	c := lutze.NewCollector()
	root := buildTree(c, *depth, *fanout)

	fmt.Printf("collector stats before collect: %+v\n", c.Stats())

	bag := container.NewSet[lutze.Ptr[node]](c)
	bag.Get().Insert(root)
	c.Unmark(bag.Get())
	c.Collect(true)

	fmt.Printf("collector stats after collect (rooted): %+v\n", c.Stats())

	c.Unmark(root.Get())
	c.Collect(true)

	fmt.Printf("collector stats after collect (unrooted): %+v\n", c.Stats())

	printHeapObjects("after")
}

func buildTree(c *lutze.Collector, depth, fanout int) lutze.Ptr[node] {
	n := lutze.New(c, func() *node { return &node{name: fmt.Sprintf("d%d", depth)} })
	if depth <= 0 {
		return n
	}

	for i := 0; i < fanout; i++ {
		child := buildTree(c, depth-1, fanout)
		n.Get().children = append(n.Get().children, child)
		c.Unmark(child.Get())
	}
	return n
}

func printHeapObjects(prefix string) {
	sample := []metrics.Sample{{Name: "/gc/heap/objects:objects"}}
	metrics.Read(sample)
	if sample[0].Value.Kind() == metrics.KindBad {
		log.Printf("%s: heap object metric unavailable", prefix)
		return
	}
	fmt.Printf("%s: go runtime live heap objects = %d\n", prefix, sample[0].Value.Uint64())
}
