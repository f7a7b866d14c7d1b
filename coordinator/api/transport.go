package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/absmach/fedledger/coordinator"
	"github.com/absmach/fedledger/pkg/api"
	pkgerrors "github.com/absmach/fedledger/pkg/errors"
	"github.com/absmach/fedledger/pkg/identity"
	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxUpdateSize = 1024 * 1024 * 100

// Identity headers. A TLS-terminating gateway authenticates the party and
// forwards the verified certificate attributes in these headers; the service
// itself never sees credentials.
const (
	headerClientID     = "X-Client-Id"
	headerMSPID        = "X-Msp-Id"
	headerEnrollmentID = "X-Enrollment-Id"
	headerRoles        = "X-Roles"
)

func MakeHandler(svc coordinator.Service, logger *slog.Logger, instanceID string) http.Handler {
	mux := chi.NewRouter()
	mux.Use(claimsFromHeaders)

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux.Route("/models", func(r chi.Router) {
		r.Post("/", otelhttp.NewHandler(kithttp.NewServer(
			createModelEndpoint(svc),
			decodeCreateModelReq,
			api.EncodeResponse,
			opts...,
		), "create-model").ServeHTTP)
		r.Route("/{modelID}", func(r chi.Router) {
			r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
				getModelEndpoint(svc),
				decodeModelReq,
				api.EncodeResponse,
				opts...,
			), "get-model").ServeHTTP)
			r.Post("/start", otelhttp.NewHandler(kithttp.NewServer(
				startTrainingEndpoint(svc),
				decodeModelReq,
				api.EncodeResponse,
				opts...,
			), "start-training").ServeHTTP)
			r.Post("/updates", otelhttp.NewHandler(kithttp.NewServer(
				addUpdateEndpoint(svc),
				decodeAddUpdateReq,
				api.EncodeResponse,
				opts...,
			), "add-update").ServeHTTP)
			r.Get("/updates", otelhttp.NewHandler(kithttp.NewServer(
				currentRoundUpdatesEndpoint(svc),
				decodeModelReq,
				api.EncodeResponse,
				opts...,
			), "current-round-updates").ServeHTTP)
			r.Get("/updates/count", otelhttp.NewHandler(kithttp.NewServer(
				receivedCountEndpoint(svc),
				decodeModelReq,
				api.EncodeResponse,
				opts...,
			), "received-count").ServeHTTP)
			r.Get("/updates/quorum", otelhttp.NewHandler(kithttp.NewServer(
				quorumEndpoint(svc),
				decodeModelReq,
				api.EncodeResponse,
				opts...,
			), "quorum").ServeHTTP)
			r.Post("/rounds", otelhttp.NewHandler(kithttp.NewServer(
				addAggregateEndpoint(svc),
				decodeAddAggregateReq,
				api.EncodeResponse,
				opts...,
			), "add-aggregate").ServeHTTP)
			r.Get("/rounds/latest", otelhttp.NewHandler(kithttp.NewServer(
				getAggregateEndpoint(svc),
				decodeModelReq,
				api.EncodeResponse,
				opts...,
			), "get-aggregate").ServeHTTP)
			r.Get("/rounds/{round}/updates", otelhttp.NewHandler(kithttp.NewServer(
				roundUpdatesEndpoint(svc),
				decodeRoundUpdatesReq,
				api.EncodeResponse,
				opts...,
			), "round-updates").ServeHTTP)
			r.Get("/trained", otelhttp.NewHandler(kithttp.NewServer(
				getTrainedModelEndpoint(svc),
				decodeModelReq,
				api.EncodeResponse,
				opts...,
			), "get-trained-model").ServeHTTP)
		})
	})

	mux.Post("/updates/cbor", otelhttp.NewHandler(kithttp.NewServer(
		addUpdateCBOREndpoint(svc),
		decodeAddUpdateCBORReq,
		api.EncodeResponse,
		opts...,
	), "add-update-cbor").ServeHTTP)

	mux.Get("/whoami", otelhttp.NewHandler(kithttp.NewServer(
		personalInfoEndpoint(svc),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "whoami").ServeHTTP)

	mux.Get("/roles/{role}", otelhttp.NewHandler(kithttp.NewServer(
		hasRoleEndpoint(svc),
		decodeRoleReq,
		api.EncodeResponse,
		opts...,
	), "has-role").ServeHTTP)

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", api.ContentType)
		if err := json.NewEncoder(w).Encode(map[string]string{
			"status":      "pass",
			"instance_id": instanceID,
		}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// claimsFromHeaders builds the caller's identity from the gateway headers.
// Requests without identity headers pass through without claims; each
// operation decides for itself whether it needs a role.
func claimsFromHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerClientID)
		if id == "" {
			next.ServeHTTP(w, r)

			return
		}

		attrs := make(map[string]bool)
		for _, role := range strings.Split(r.Header.Get(headerRoles), ",") {
			if role = strings.TrimSpace(role); role != "" {
				attrs[role] = true
			}
		}

		ctx := identity.NewContext(r.Context(), identity.Claims{
			ID:           id,
			MSPID:        r.Header.Get(headerMSPID),
			EnrollmentID: r.Header.Get(headerEnrollmentID),
			Attributes:   attrs,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func decodeCreateModelReq(_ context.Context, r *http.Request) (any, error) {
	var req createModelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Join(pkgerrors.ErrInvalidData, err)
	}

	return req, nil
}

func decodeModelReq(_ context.Context, r *http.Request) (any, error) {
	return modelReq{
		modelID: chi.URLParam(r, "modelID"),
	}, nil
}

func decodeAddUpdateReq(_ context.Context, r *http.Request) (any, error) {
	req := addUpdateReq{
		modelID: chi.URLParam(r, "modelID"),
	}
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxUpdateSize)).Decode(&req); err != nil {
		return nil, errors.Join(pkgerrors.ErrInvalidData, err)
	}

	return req, nil
}

func decodeAddUpdateCBORReq(_ context.Context, r *http.Request) (any, error) {
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxUpdateSize))
	if err != nil {
		return nil, errors.Join(pkgerrors.ErrInvalidData, err)
	}

	return addUpdateCBORReq{
		data: data,
	}, nil
}

func decodeAddAggregateReq(_ context.Context, r *http.Request) (any, error) {
	req := addAggregateReq{
		modelID: chi.URLParam(r, "modelID"),
	}
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxUpdateSize)).Decode(&req); err != nil {
		return nil, errors.Join(pkgerrors.ErrInvalidData, err)
	}

	return req, nil
}

func decodeRoundUpdatesReq(_ context.Context, r *http.Request) (any, error) {
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, apiutil.ErrInvalidQueryParams)
	}

	return roundUpdatesReq{
		modelID: chi.URLParam(r, "modelID"),
		round:   round,
	}, nil
}

func decodeRoleReq(_ context.Context, r *http.Request) (any, error) {
	return roleReq{
		role: chi.URLParam(r, "role"),
	}, nil
}

func decodeEmptyReq(_ context.Context, _ *http.Request) (any, error) {
	return nil, nil
}
