package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeCategories(t *testing.T) {
	t.Parallel()

	t.Run("Base order preserved, extras appended", func(t *testing.T) {
		merged := MergeCategories([]string{"DBMS", "OS"}, []string{"ML", "OS"})
		assert.Equal(t, []string{"DBMS", "OS", "ML"}, merged)
	})

	t.Run("Case-insensitive, first casing wins", func(t *testing.T) {
		merged := MergeCategories([]string{"DBMS"}, []string{"dbms", "Dbms", "Networks"})
		assert.Equal(t, []string{"DBMS", "Networks"}, merged)
	})

	t.Run("Whitespace-only labels dropped", func(t *testing.T) {
		merged := MergeCategories([]string{"DBMS"}, []string{"  ", ""})
		assert.Equal(t, []string{"DBMS"}, merged)
	})

	t.Run("Both empty", func(t *testing.T) {
		assert.Empty(t, MergeCategories(nil, nil))
	})
}

func TestContainsCategory(t *testing.T) {
	t.Parallel()
	list := []string{"DBMS", "Operating Systems"}

	assert.True(t, ContainsCategory(list, "dbms"))
	assert.True(t, ContainsCategory(list, " operating systems "))
	assert.False(t, ContainsCategory(list, "Networks"))
}
