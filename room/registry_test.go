package room

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoom struct {
	code string
}

func TestRegistryInsertGetRemove(t *testing.T) {
	r := NewRegistry[*fakeRoom]()

	require.True(t, r.Insert("AAAAAA", &fakeRoom{code: "AAAAAA"}))
	assert.False(t, r.Insert("AAAAAA", &fakeRoom{code: "AAAAAA"}), "duplicate codes are rejected")

	got, exists := r.Get("AAAAAA")
	require.True(t, exists)
	assert.Equal(t, "AAAAAA", got.code)

	_, exists = r.Get("BBBBBB")
	assert.False(t, exists)

	assert.True(t, r.Remove("AAAAAA"))
	assert.False(t, r.Remove("AAAAAA"), "removing twice reports the entry gone")
	assert.Zero(t, r.Len())
}

func TestRegistrySharedHandles(t *testing.T) {
	r := NewRegistry[*fakeRoom]()
	original := &fakeRoom{code: "CCCCCC"}
	r.Insert("CCCCCC", original)

	handle, _ := r.Get("CCCCCC")
	r.Remove("CCCCCC")

	// A handle resolved before removal stays valid; only the registry
	// entry is gone.
	assert.Same(t, original, handle)
	assert.False(t, r.Contains("CCCCCC"))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry[*fakeRoom]()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := fmt.Sprintf("ROOM%02d", i)
			r.Insert(code, &fakeRoom{code: code})
			r.Get(code)
			r.Remove(code)
		}(i)
	}
	wg.Wait()

	assert.Zero(t, r.Len())
}

func TestGenerateCode(t *testing.T) {
	code := GenerateCode(6, func(string) bool { return false })
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.Contains(t, codeAlphabet, string(c))
	}
}

func TestGenerateCodeAvoidsTaken(t *testing.T) {
	// Reject everything once; the generator must re-roll.
	rejectedOnce := false
	var first string
	code := GenerateCode(6, func(c string) bool {
		if !rejectedOnce {
			rejectedOnce = true
			first = c
			return true
		}
		return false
	})
	assert.NotEqual(t, first, code)
}
