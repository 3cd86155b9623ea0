package extractor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cargoscan/internal/domain"
	"cargoscan/internal/extractor"
	"cargoscan/internal/port"
	"cargoscan/mocks"
)

func TestChain_PrimarySucceeds(t *testing.T) {
	primary := new(mocks.MockFieldExtractor)
	secondary := new(mocks.MockFieldExtractor)

	out := &port.ExtractOutput{ModelUsed: "primary-model"}
	primary.On("Extract", mock.Anything, mock.Anything).Return(out, nil)

	chain := extractor.NewChain(
		[]port.FieldExtractor{primary, secondary},
		[]string{"claude", "openai"},
	)

	got, err := chain.Extract(context.Background(), port.ExtractInput{Text: "texto"})
	require.NoError(t, err)
	assert.Equal(t, "primary-model", got.ModelUsed)
	secondary.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestChain_FallsBackToSecondary(t *testing.T) {
	primary := new(mocks.MockFieldExtractor)
	secondary := new(mocks.MockFieldExtractor)

	primary.On("Extract", mock.Anything, mock.Anything).Return(nil, domain.ErrConnectivity)
	out := &port.ExtractOutput{ModelUsed: "fallback-model"}
	secondary.On("Extract", mock.Anything, mock.Anything).Return(out, nil)

	chain := extractor.NewChain(
		[]port.FieldExtractor{primary, secondary},
		[]string{"claude", "openai"},
	)

	got, err := chain.Extract(context.Background(), port.ExtractInput{Text: "texto"})
	require.NoError(t, err)
	assert.Equal(t, "fallback-model", got.ModelUsed)
}

func TestChain_AllFailKeepsTaxonomy(t *testing.T) {
	primary := new(mocks.MockFieldExtractor)
	secondary := new(mocks.MockFieldExtractor)

	primary.On("Extract", mock.Anything, mock.Anything).Return(nil, domain.ErrConnectivity)
	secondary.On("Extract", mock.Anything, mock.Anything).Return(nil, domain.ErrMissingCredential)

	chain := extractor.NewChain(
		[]port.FieldExtractor{primary, secondary},
		[]string{"claude", "openai"},
	)

	_, err := chain.Extract(context.Background(), port.ExtractInput{Text: "texto"})
	require.Error(t, err)
	// The last failure's tag survives the wrap.
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}
