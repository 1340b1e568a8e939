package crawler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

type nopCrawler struct {
	Base
	label string
}

func (nopCrawler) Extract(context.Context, string, string) ([]record.Record, error) {
	return nil, nil
}

func factoryWithLabel(label string) Factory {
	return func(src config.Source, deps Deps, opts Options) (Crawler, error) {
		return &nopCrawler{label: label}, nil
	}
}

func TestRegistryResolvesSourceSpecificOverDefault(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(record.KindNews, factoryWithLabel("default"))
	registry.RegisterForSource(record.KindNews, "My-Site", factoryWithLabel("specific"))

	instance, err := registry.Create(config.Source{Kind: record.KindNews, Name: "my-site"}, Deps{}, Options{})
	require.NoError(t, err)
	require.Equal(t, "specific", instance.(*nopCrawler).label)
}

func TestRegistryFallsBackToKindDefault(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(record.KindNews, factoryWithLabel("default"))

	// A source name with no dedicated entry resolves to the kind default.
	instance, err := registry.Create(config.Source{Kind: record.KindNews, Name: "my-site"}, Deps{}, Options{})
	require.NoError(t, err)
	require.Equal(t, "default", instance.(*nopCrawler).label)
}

func TestRegistryUnknownKind(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	_, err := registry.Resolve(record.KindPlay, "")
	var notRegistered *NotRegisteredError
	require.ErrorAs(t, err, &notRegistered)
	require.Equal(t, record.KindPlay, notRegistered.Kind)
}

func TestRegistryReRegistrationReplaces(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(record.KindBook, factoryWithLabel("first"))
	registry.Register(record.KindBook, factoryWithLabel("second"))

	instance, err := registry.Create(config.Source{Kind: record.KindBook}, Deps{}, Options{})
	require.NoError(t, err)
	require.Equal(t, "second", instance.(*nopCrawler).label)
}

func TestRegistryCreatePropagatesFactoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("bad selector")
	registry := NewRegistry()
	registry.Register(record.KindPlay, func(config.Source, Deps, Options) (Crawler, error) {
		return nil, boom
	})

	_, err := registry.Create(config.Source{Kind: record.KindPlay}, Deps{}, Options{})
	require.ErrorIs(t, err, boom)
}
