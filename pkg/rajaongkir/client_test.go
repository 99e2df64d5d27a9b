package rajaongkir

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
)

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func TestCostParsesRateOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("key"); got != "test-key" {
			t.Fatalf("unexpected api key header %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("courier"); got != "jne" {
			t.Fatalf("expected lowercased courier, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rajaongkir":{"status":{"code":200,"description":"OK"},"results":[{"code":"jne","costs":[{"service":"REG","description":"Layanan Reguler","cost":[{"value":18000,"etd":"2-3"}]},{"service":"YES","description":"Yakin Esok Sampai","cost":[{"value":32000,"etd":"1-1"}]}]}]}}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	options, err := client.Cost(context.Background(), CostRequest{
		OriginCityID:      "501",
		DestinationCityID: "114",
		WeightGrams:       1500,
		Courier:           "JNE",
	})
	if err != nil {
		t.Fatalf("Cost returned error: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("expected 2 rate options, got %d", len(options))
	}
	if options[0].Service != "REG" || options[0].CostIDR != 18000 {
		t.Fatalf("unexpected first option %+v", options[0])
	}
}

func TestCostRejectsAPIStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rajaongkir":{"status":{"code":400,"description":"invalid key"},"results":[]}}`))
	}))
	defer server.Close()

	client, err := NewClient("bad-key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Cost(context.Background(), CostRequest{
		OriginCityID:      "501",
		DestinationCityID: "114",
		WeightGrams:       500,
		Courier:           "jne",
	})
	if err == nil {
		t.Fatal("expected error for api-level failure")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCostValidatesInput(t *testing.T) {
	client, err := NewClient("key")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Cost(context.Background(), CostRequest{DestinationCityID: "114", WeightGrams: 500, Courier: "jne"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing origin, got %v", err)
	}

	_, err = client.Cost(context.Background(), CostRequest{OriginCityID: "501", DestinationCityID: "114", Courier: "jne"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for non-positive weight, got %v", err)
	}
}
