package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxFuzzInput = 1 << 16 // 64 KiB
	maxSeedBytes = 64 << 10
)

var inlineSeeds = []string{
	``,
	`<p>hello</p>`,
	`<ul py:strip=""><li py:for="x in xs">${x}</li></ul>`,
	`<div py:content="body" py:if="show">ignored</div>`,
	`<py:block name="b"><py:if test="a">$a.b</py:if></py:block>`,
	`<img alt="photo" title="${t}" py:attrs="extra"/>`,
	`<script>if (a < b) { x = "${v}"; }</script>`,
	`<?xml version="1.0"?><!DOCTYPE html><!-- c --><?python x = 1 ?>`,
	`<html xmlns:py="http://genshi.edgewall.org/"><br><input disabled></html>`,
	`<p translate="no">${unterminated {{ also $$ and }}</p>`,
	`<py:import href="h.tk" alias="h"/><py:replace value="x"/>`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.tk файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error { //nolint:errcheck
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".tk" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

func clamp(src []byte, limit int) []byte {
	if len(src) <= limit {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:limit]...)
}
