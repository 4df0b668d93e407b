package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/pagecraft/internal/record"
)

func TestRunStateMerge(t *testing.T) {
	t.Parallel()

	product := &record.ProductRecord{ProductName: "GlowBoost Vitamin C Serum"}
	questions := &record.QuestionSet{}

	t.Run("declared field merges and becomes readable", func(t *testing.T) {
		t.Parallel()

		state := NewRunState()
		assert.False(t, state.Has(FieldProduct))

		err := state.Merge(StageDataExtraction, []Field{FieldProduct}, Delta{Product: product})
		require.NoError(t, err)

		assert.True(t, state.Has(FieldProduct))
		assert.Equal(t, product, state.Product())
	})

	t.Run("undeclared field rejected", func(t *testing.T) {
		t.Parallel()

		state := NewRunState()
		err := state.Merge(StageDataExtraction, []Field{FieldProduct}, Delta{
			Product:   product,
			Questions: questions,
		})

		var conflict *StateConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, StageDataExtraction, conflict.Stage)
		assert.Equal(t, FieldQuestions, conflict.Field)
		assert.True(t, conflict.Undeclared)

		// A rejected delta must not apply partially.
		assert.False(t, state.Has(FieldProduct))
	})

	t.Run("overwrite rejected", func(t *testing.T) {
		t.Parallel()

		state := NewRunState()
		require.NoError(t, state.Merge(StageDataExtraction, []Field{FieldProduct}, Delta{Product: product}))

		other := &record.ProductRecord{ProductName: "Impostor Serum"}
		err := state.Merge(StageCompetitorSynthesis, []Field{FieldProduct}, Delta{Product: other})

		var conflict *StateConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, StageCompetitorSynthesis, conflict.Stage)
		assert.Equal(t, FieldProduct, conflict.Field)
		assert.False(t, conflict.Undeclared)

		assert.Equal(t, product, state.Product())
	})

	t.Run("empty delta is a no-op", func(t *testing.T) {
		t.Parallel()

		state := NewRunState()
		require.NoError(t, state.Merge(StageQualityCheck, nil, Delta{}))
		for _, f := range []Field{FieldProduct, FieldQuestions, FieldCompetitor, FieldFAQ, FieldProductPage, FieldComparison} {
			assert.False(t, state.Has(f))
		}
	})
}

func TestDeltaFields(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		delta Delta
		want  []Field
	}{
		"empty": {
			delta: Delta{},
			want:  nil,
		},
		"single field": {
			delta: Delta{FAQ: &record.FAQPage{}},
			want:  []Field{FieldFAQ},
		},
		"multiple fields in declaration order": {
			delta: Delta{
				Questions:  &record.QuestionSet{},
				Competitor: &record.ProductRecord{},
				Comparison: &record.ComparisonPage{},
			},
			want: []Field{FieldQuestions, FieldCompetitor, FieldComparison},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.delta.Fields())
		})
	}
}

func TestRunStateGettersStartNil(t *testing.T) {
	t.Parallel()

	state := NewRunState()
	assert.Nil(t, state.Product())
	assert.Nil(t, state.Questions())
	assert.Nil(t, state.Competitor())
	assert.Nil(t, state.FAQ())
	assert.Nil(t, state.ProductPage())
	assert.Nil(t, state.Comparison())
}
