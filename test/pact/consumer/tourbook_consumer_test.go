//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/tourbook/internal/clients/http/backend"
	bookingsapp "github.com/Apurer/tourbook/internal/domains/bookings/application"
	toursapp "github.com/Apurer/tourbook/internal/domains/tours/application"
	toursports "github.com/Apurer/tourbook/internal/domains/tours/ports"
	"github.com/Apurer/tourbook/internal/session"
	sharederrors "github.com/Apurer/tourbook/internal/shared/errors"
	pacttest "github.com/Apurer/tourbook/test/pact"
)

func TestTourbookClientContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	tourMatcher := matchers.Like(pacttest.ExampleTour())
	problem := func(status int, typ string) matchers.Map {
		return matchers.Map{
			"type":   matchers.S(typ),
			"title":  matchers.Like(http.StatusText(status)),
			"status": matchers.Like(status),
		}
	}

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request for the first catalog page").
		WithRequest("GET", "/api/tours", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("page", matchers.S("1"))
			b.Query("limit", matchers.S("9"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"items":      matchers.EachLike(tourMatcher, 1),
				"page":       matchers.Like(1),
				"limit":      matchers.Like(9),
				"total":      matchers.Like(6),
				"totalPages": matchers.Like(1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request for an existing tour").
		WithRequest("GET", "/api/tours/"+pacttest.ExistingTourSlug).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(tourMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request for a missing tour").
		WithRequest("GET", "/api/tours/"+pacttest.MissingTourSlug).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S(sharederrors.ContentTypeProblemJSON))
			b.JSONBody(problem(http.StatusNotFound, sharederrors.TypeNotFound))
		})

	pact.AddInteraction().
		Given(pacttest.StateTokenStale).
		UponReceiving("a bookings request with an expired access token").
		WithRequest("GET", "/api/bookings/me", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", matchers.S("Bearer "+pacttest.StaleAccessToken))
		}).
		WillRespondWith(http.StatusUnauthorized, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S(sharederrors.ContentTypeProblemJSON))
			b.JSONBody(problem(http.StatusUnauthorized, sharederrors.TypeUnauthorized))
		})

	pact.AddInteraction().
		Given(pacttest.StateRefreshCookie).
		UponReceiving("a refresh-token request").
		WithRequest("POST", "/api"+backend.DefaultRefreshPath).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"accessToken": matchers.Like(pacttest.RefreshedAccessToken),
				"user":        matchers.Like(pacttest.ExampleUser()),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateNoBookings).
		UponReceiving("a bookings request retried with the refreshed token").
		WithRequest("GET", "/api/bookings/me", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", matchers.S("Bearer "+pacttest.RefreshedAccessToken))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody([]any{})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		host := config.Host
		if host == "" {
			host = "localhost"
		}
		store := session.NewStore()
		store.SetAuth(session.User{ID: "1", Name: "Administrator", Role: session.RoleAdmin}, pacttest.StaleAccessToken)
		client, err := backend.New(fmt.Sprintf("http://%s:%d/api", host, config.Port), store)
		if err != nil {
			return err
		}
		tours := toursapp.NewService(client)
		bookings := bookingsapp.NewService(client, store)

		page, err := tours.List(ctx, toursports.Query{Page: 1})
		if err != nil {
			return fmt.Errorf("list tours: %w", err)
		}
		if len(page.Items) == 0 {
			return fmt.Errorf("expected at least one tour")
		}
		tour, err := tours.Get(ctx, pacttest.ExistingTourSlug)
		if err != nil {
			return fmt.Errorf("get tour: %w", err)
		}
		if tour.Slug != pacttest.ExistingTourSlug {
			return fmt.Errorf("expected slug %s, got %s", pacttest.ExistingTourSlug, tour.Slug)
		}
		if _, err := tours.Get(ctx, pacttest.MissingTourSlug); !errors.Is(err, toursapp.ErrNotFound) {
			return fmt.Errorf("expected not found for %s, got %v", pacttest.MissingTourSlug, err)
		}

		mine, err := bookings.ListMine(ctx)
		if err != nil {
			return fmt.Errorf("list bookings after refresh: %w", err)
		}
		if len(mine) != 0 {
			return fmt.Errorf("expected no bookings, got %d", len(mine))
		}
		if got := store.AccessToken(); got != pacttest.RefreshedAccessToken {
			return fmt.Errorf("expected refreshed token in store, got %q", got)
		}
		return nil
	})
	require.NoError(t, err)
}
