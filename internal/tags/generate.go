package tags

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/ryabkov/vicmd/internal/logger"
)

// goTagQuery captures the Go declarations worth a tag entry.
const goTagQuery = `
(function_declaration name: (identifier) @name)
(method_declaration name: (field_identifier) @name)
(type_declaration (type_spec name: (type_identifier) @name))
(const_declaration (const_spec name: (identifier) @name))
(var_declaration (var_spec name: (identifier) @name))
`

// Generate synthesizes tag records for the Go sources under root,
// substituting for an external ctags run when no tag table exists.
// Locate-expressions are plain line numbers. Dot- and
// underscore-prefixed directories are skipped.
func Generate(root string) ([]Record, error) {
	lang := golang.GetLanguage()
	query, err := sitter.NewQuery([]byte(goTagQuery), lang)
	if err != nil {
		return nil, err
	}
	defer query.Close()

	var recs []Record
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		source, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable source", "path", path, "err", err)
			return nil
		}
		recs = append(recs, extract(lang, query, source, path)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("generated tags", "root", root, "tags", len(recs))
	return recs, nil
}

// extract parses one source file and collects a record per @name
// capture.
func extract(lang *sitter.Language, query *sitter.Query, source []byte, path string) []Record {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		logger.Warn("parse failed", "path", path, "err", err)
		return nil
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var recs []Record
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)
		for _, c := range match.Captures {
			if query.CaptureNameForId(c.Index) != "name" {
				continue
			}
			node := c.Node
			recs = append(recs, Record{
				Symbol: string(source[node.StartByte():node.EndByte()]),
				File:   path,
				Expr:   strconv.Itoa(int(node.StartPoint().Row) + 1),
			})
		}
	}
	return recs
}
