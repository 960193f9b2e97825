package puzzle

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/puzzle/codec"
	"github.com/hupe1980/puzzle/distance"
	"github.com/hupe1980/puzzle/grid"
	"github.com/hupe1980/puzzle/signature"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	plain := errors.New("boom")
	assert.Same(t, plain, translateError(plain))

	t.Run("Unreadable", func(t *testing.T) {
		err := translateError(fmt.Errorf("wrapped: %w", &grid.ErrUnreadable{Path: "a.png", Err: io.ErrUnexpectedEOF}))
		var target *ErrUnreadableSource
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "a.png", target.Path)
		assert.Equal(t, "fail to read file: a.png: unexpected EOF", err.Error())
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("UnreadableWithoutCause", func(t *testing.T) {
		err := translateError(&grid.ErrUnreadable{Path: "b.png"})
		assert.Equal(t, "fail to read file: b.png", err.Error())
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := translateError(&grid.ErrUnsupported{Source: "c.txt", Reason: "cannot decode image header", Err: errors.New("image: unknown format")})
		var target *ErrUnsupportedFormat
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "c.txt", target.Source)
		assert.Equal(t, "unsupported format: c.txt: cannot decode image header: image: unknown format", err.Error())
	})

	t.Run("InvalidGrid", func(t *testing.T) {
		err := translateError(&signature.ErrInvalidGrid{Expected: 128, Actual: 32})
		var target *ErrInvalidInput
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 128, target.Expected)
		assert.Equal(t, 32, target.Actual)
		assert.Contains(t, err.Error(), "expected 128x128, got 32x32")
	})

	t.Run("PackErrors", func(t *testing.T) {
		var target *ErrInvalidInput
		require.ErrorAs(t, translateError(&codec.ErrSignatureLength{Expected: 648, Actual: 1}), &target)
		assert.Equal(t, 1, target.Actual)
		require.ErrorAs(t, translateError(&codec.ErrInvalidSymbol{Position: 3, Symbol: 7}), &target)
		assert.Equal(t, 7, target.Actual)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		cause := &distance.ErrLengthMismatch{Expected: 648, Actual: 72}
		err := translateError(cause)
		var target *ErrDimensionMismatch
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "dimension mismatch: expected 648, got 72", err.Error())
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("Corrupt", func(t *testing.T) {
		err := translateError(&codec.ErrCorrupt{Length: 3, Expected: 243, Reason: "wrong length"})
		var target *ErrCorruptData
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 3, target.Length)
		assert.Equal(t, "corrupt data (3 bytes): wrong length", err.Error())
	})
}

func TestThresholds(t *testing.T) {
	th := DefaultThresholds(distance.MetricNormalizedL2)
	require.NoError(t, th.Validate())

	tests := []struct {
		d        float64
		expected Similarity
	}{
		{0, SimilarityNearDuplicate},
		{0.19, SimilarityNearDuplicate},
		{0.2, SimilarityHigh},
		{0.45, SimilarityStrong},
		{0.65, SimilarityWeak},
		{0.7, SimilarityNone},
		{1.2, SimilarityNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, th.Classify(tt.d), "distance %v", tt.d)
	}

	require.NoError(t, DefaultThresholds(distance.MetricOrdinal).Validate())
	assert.ErrorIs(t, Thresholds{}.Validate(), ErrInvalidConfig)

	assert.Equal(t, "near-duplicate", SimilarityNearDuplicate.String())
	assert.Equal(t, "none", SimilarityNone.String())
	assert.Equal(t, "Unknown(9)", Similarity(9).String())
}
