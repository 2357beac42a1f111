// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import (
	"reflect"
	"testing"
)

func TestCitedKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			"plain cite",
			`as shown in \cite{vaswani2017}`,
			[]string{"vaswani2017"},
		},
		{
			"multiple keys one command",
			`\cite{a, b,c}`,
			[]string{"a", "b", "c"},
		},
		{
			"natbib variants",
			`\citep{a} \citet{b} \citeauthor{c} \citeyear{d} \citealt{e}`,
			[]string{"a", "b", "c", "d", "e"},
		},
		{
			"biblatex variants",
			`\parencite{a} \textcite{b} \autocite{c}`,
			[]string{"a", "b", "c"},
		},
		{
			"starred with optional args",
			`\citep*[see][p. 4]{knuth}`,
			[]string{"knuth"},
		},
		{
			"deduplicates keeping first-use order",
			`\cite{b} \cite{a} \cite{b}`,
			[]string{"b", "a"},
		},
		{
			"commented-out cite ignored",
			"real \\cite{a}\n% ghost \\cite{b}\n",
			[]string{"a"},
		},
		{
			"escaped percent is not a comment",
			`accuracy of 95\% \cite{a}`,
			[]string{"a"},
		},
		{
			"no citations",
			`plain text`,
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CitedKeys(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CitedKeys() = %v, want %v", got, tt.want)
			}
		})
	}
}
