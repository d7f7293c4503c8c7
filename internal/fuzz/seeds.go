package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB на файл корпуса
	maxFuzzInput = 1 << 16
)

var inlineSeeds = []string{
	"",
	"@article{a, title = {T}, year = 2001}\n",
	"@Book(b, author = \"{D}oe, J.\", note = acm # \" Press\",)\n",
	"@string{acm = {ACM}}\n@preamble{\"x\"}\n% line comment\n",
	"@comment{nested {braces} here}\n@comment line\n",
	"@misc{c, title = {unterminated\n@misc{d}\n",
	"@misc{e, x = {1}, X = {2}}\n",
	"\ufeff@misc{bom}\r\n",
	"@@@{{{}}}",
	"@misc{f, title = \"q {\"} q\"}",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds добавляет все *.bib файлы из testdata пакетов.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..")
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".bib") {
			return nil
		}
		if !strings.Contains(filepath.ToSlash(path), "/testdata/") {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
