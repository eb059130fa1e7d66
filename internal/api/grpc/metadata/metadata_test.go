package metadata

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// headerStream records headers set by the interceptor.
type headerStream struct {
	header metadata.MD
}

func (s *headerStream) Method() string { return "/rollplayer.v1.RollService/Roll" }

func (s *headerStream) SetHeader(md metadata.MD) error {
	s.header = metadata.Join(s.header, md)
	return nil
}

func (s *headerStream) SendHeader(md metadata.MD) error { return s.SetHeader(md) }

func (s *headerStream) SetTrailer(metadata.MD) error { return nil }

func callInterceptor(t *testing.T, ctx context.Context, gen func() (string, error)) (string, *headerStream, error) {
	t.Helper()
	stream := &headerStream{}
	ctx = grpc.NewContextWithServerTransportStream(ctx, stream)
	var seen string
	handler := func(ctx context.Context, req any) (any, error) {
		seen = RequestIDFromContext(ctx)
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: stream.Method()}
	_, err := UnaryServerInterceptor(gen)(ctx, nil, info, handler)
	return seen, stream, err
}

func TestUnaryServerInterceptorGeneratesRequestID(t *testing.T) {
	seen, stream, err := callInterceptor(t, context.Background(), func() (string, error) {
		return "generated", nil
	})
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if seen != "generated" {
		t.Fatalf("request id = %q, want generated", seen)
	}
	if got := FirstMetadataValue(stream.header, RequestIDHeader); got != "generated" {
		t.Fatalf("response header = %q, want generated", got)
	}
}

func TestUnaryServerInterceptorReusesCallerRequestID(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "caller-id"))
	seen, _, err := callInterceptor(t, ctx, func() (string, error) {
		t.Fatal("generator called for a request that has an id")
		return "", nil
	})
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if seen != "caller-id" {
		t.Fatalf("request id = %q, want caller-id", seen)
	}
}

func TestUnaryServerInterceptorGeneratorFailure(t *testing.T) {
	_, _, err := callInterceptor(t, context.Background(), func() (string, error) {
		return "", errors.New("no entropy")
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %s, want Internal", status.Code(err))
	}
}

func TestUnaryServerInterceptorDefaultGenerator(t *testing.T) {
	seen, _, err := callInterceptor(t, context.Background(), nil)
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if len(seen) != 26 {
		t.Fatalf("request id = %q, want a 26 character id", seen)
	}
}

func TestLocaleFromContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "missing", ctx: context.Background(), want: ""},
		{name: "present", ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs(LocaleHeader, "pt-BR")), want: "pt-BR"},
		{name: "skips non printable", ctx: metadata.NewIncomingContext(context.Background(), metadata.MD{LocaleHeader: {"\x01", "en-US"}}), want: "en-US"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocaleFromContext(tt.ctx); got != tt.want {
				t.Fatalf("LocaleFromContext() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsPrintableASCII(t *testing.T) {
	tests := map[string]bool{
		"":       false,
		"abc-12": true,
		"tab\t":  false,
		"é":      false,
	}
	for value, want := range tests {
		if got := IsPrintableASCII(value); got != want {
			t.Fatalf("IsPrintableASCII(%q) = %v, want %v", value, got, want)
		}
	}
}
