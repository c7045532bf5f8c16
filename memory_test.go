package langconcepts_test

import (
	langconcepts "github.com/wippyai/lang-concepts"
	"github.com/wippyai/lang-concepts/heap"
)

var _ langconcepts.Heap = (*heap.Heap)(nil)
