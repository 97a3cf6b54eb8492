// Package listing renders a registered test tree without executing
// it, in the human, JSON, and YAML forms spec.md §6 names as external
// collaborators of the core (argument parsing decides which one to
// print; this package only renders).
package listing

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/gocorexctest/xctest"
)

// Node is a tree node: a class/suite with either nested tests (Tests)
// or, for a leaf, no children at all (spec.md §6 "leaves having no
// tests").
type Node struct {
	Name  string `json:"name" yaml:"name"`
	Tests []Node `json:"tests,omitempty" yaml:"tests,omitempty"`
}

// BuildTree walks a *xctest.Suite into a listing Node tree. Cases
// become leaves (Tests == nil); nested Suites recurse.
func BuildTree(root *xctest.Suite) Node {
	return nodeFrom(root)
}

func nodeFrom(e xctest.TestEntity) Node {
	suite, ok := e.(*xctest.Suite)
	if !ok {
		return Node{Name: e.Name()}
	}
	children := suite.Children()
	out := Node{Name: suite.Name(), Tests: make([]Node, 0, len(children))}
	for _, child := range children {
		out.Tests = append(out.Tests, nodeFrom(child))
	}
	return out
}

// WriteHuman prints one line per leaf case, "ClassName.methodName"
// (spec.md §6 "Listing output (human)").
func WriteHuman(w io.Writer, root *xctest.Suite) error {
	for _, name := range leafNames(BuildTree(root)) {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON prints the tree as {name, tests: [...]} (spec.md §6
// "Listing output (JSON)").
func WriteJSON(w io.Writer, root *xctest.Suite) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildTree(root))
}

// WriteYAML prints the same tree in YAML, grounded on the teacher's
// use of gopkg.in/yaml.v2 for its other structured output surfaces.
func WriteYAML(w io.Writer, root *xctest.Suite) error {
	data, err := yaml.Marshal(BuildTree(root))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// leafNames flattens a Node tree into its ordered leaf case names.
// The leaf's own Name is already "ClassName.methodName", so each is
// returned as is, unprefixed by ancestor suite names.
func leafNames(n Node) []string {
	if len(n.Tests) == 0 {
		if n.Name == "" {
			return nil
		}
		return []string{n.Name}
	}
	var out []string
	for _, child := range n.Tests {
		out = append(out, leafNames(child)...)
	}
	return out
}

// ParseJSONLeafNames is the inverse direction used by the
// round-trip test property of spec.md §8: it recovers the ordered set
// of leaf names a JSON listing describes.
func ParseJSONLeafNames(data []byte) ([]string, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return leafNames(n), nil
}

// HumanLeafNames parses a human-format listing (one name per line)
// back into the ordered leaf-name set.
func HumanLeafNames(data []byte) []string {
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	var out []string
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
