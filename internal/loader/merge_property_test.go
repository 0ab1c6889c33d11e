// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// encodeFile writes the servers in the given order.
func encodeFile(t *rapid.T, servers map[string]string, order []string) string {
	var sb strings.Builder
	sb.WriteString(`{"mcpServers":{`)
	for i, name := range order {
		if i > 0 {
			sb.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			t.Fatalf("marshal fixture: %v", err)
		}
		v, err := json.Marshal(servers[name])
		if err != nil {
			t.Fatalf("marshal fixture: %v", err)
		}
		fmt.Fprintf(&sb, `%s:{"command":%s}`, k, v)
	}
	sb.WriteString("}}")
	return sb.String()
}

// Files with disjoint names merge into exactly the sum of their entries.
func TestLoad_DisjointUnionProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		fileCount := rapid.IntRange(0, 6).Draw(t, "files")
		files := memFS{}
		var paths []string
		total := 0
		for f := range fileCount {
			n := rapid.IntRange(0, 5).Draw(t, fmt.Sprintf("entries%d", f))
			servers := map[string]string{}
			var order []string
			for e := range n {
				name := fmt.Sprintf("f%d-s%d", f, e)
				servers[name] = name
				order = append(order, name)
			}
			path := fmt.Sprintf("/p/%d.json", f)
			files[path] = encodeFile(t, servers, order)
			paths = append(paths, path)
			total += n
		}

		res, err := New(WithReadFile(files.read)).Load(context.Background(), sourcesOf(paths...))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if res.Table.Len() != total {
			t.Fatalf("Len() = %d, want %d", res.Table.Len(), total)
		}
		if len(res.Overridden) != 0 {
			t.Fatalf("Overridden = %v, want none", res.Overridden)
		}
	})
}

// Swapping the order of two sources that share a name swaps the winner.
func TestLoad_LastWriterWinsFlipsProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		shared := rapid.SampledFrom([]string{"git", "fs", "web", "db"}).Draw(t, "shared")
		extraA := rapid.SliceOfNDistinct(rapid.SampledFrom([]string{"a1", "a2", "a3"}), 0, 3, func(s string) string { return s }).Draw(t, "extraA")
		extraB := rapid.SliceOfNDistinct(rapid.SampledFrom([]string{"b1", "b2", "b3"}), 0, 3, func(s string) string { return s }).Draw(t, "extraB")

		build := func(tag string, extras []string) string {
			servers := map[string]string{shared: tag}
			order := []string{shared}
			for _, e := range extras {
				servers[e] = tag
				order = append(order, e)
			}
			return encodeFile(t, servers, order)
		}
		files := memFS{"/a.json": build("A", extraA), "/b.json": build("B", extraB)}
		l := New(WithReadFile(files.read))

		ab, err := l.Load(context.Background(), sourcesOf("/a.json", "/b.json"))
		if err != nil {
			t.Fatal(err)
		}
		ba, err := l.Load(context.Background(), sourcesOf("/b.json", "/a.json"))
		if err != nil {
			t.Fatal(err)
		}

		if e, _ := ab.Table.Get(shared); e.Command != "B" {
			t.Fatalf("a,b: %s = %q, want B", shared, e.Command)
		}
		if e, _ := ba.Table.Get(shared); e.Command != "A" {
			t.Fatalf("b,a: %s = %q, want A", shared, e.Command)
		}
		if ab.Table.Names()[0] != shared || ba.Table.Names()[0] != shared {
			t.Fatalf("shared name lost its first position")
		}
		namesAB := slices.Sorted(slices.Values(ab.Table.Names()))
		namesBA := slices.Sorted(slices.Values(ba.Table.Names()))
		if !slices.Equal(namesAB, namesBA) {
			t.Fatalf("name sets differ: %v vs %v", namesAB, namesBA)
		}
	})
}
