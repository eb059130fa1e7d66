package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCodeKind(t *testing.T) {
	tests := []struct {
		code Code
		want Kind
	}{
		{CodeRollSyntax, KindSyntax},
		{CodeRollNumberOutOfRange, KindHardLimit},
		{CodeRollUnknownTier, KindArgument},
		{CodeRollDiceUpsell, KindUpsell},
		{CodeRollExplosionUpsell, KindUpsell},
		{CodeRollRerollUpsell, KindUpsell},
		{CodeRollDiceLimit, KindHardLimit},
		{CodeRollZeroDice, KindHardLimit},
		{CodeRollKeepNothing, KindHardLimit},
		{CodeRollTargetZero, KindHardLimit},
		{CodeRollTargetMissing, KindHardLimit},
		{CodeRollTooManyGroups, KindHardLimit},
		{CodeRollTimeout, KindTimeout},
		{CodeRollInternal, KindInternal},
		{CodeUnknown, KindInternal},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.Kind(); got != tt.want {
				t.Fatalf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpsellAndHardLimitMapToDifferentStatus(t *testing.T) {
	if CodeRollDiceUpsell.GRPCCode() == CodeRollDiceLimit.GRPCCode() {
		t.Fatal("expected upsell and hard limit to map to distinct gRPC codes")
	}
	if got := CodeRollTimeout.GRPCCode(); got != codes.DeadlineExceeded {
		t.Fatalf("expected DeadlineExceeded, got %v", got)
	}
}

func TestUnknownTierIsAnArgumentError(t *testing.T) {
	if got := CodeRollUnknownTier.Kind().String(); got != "invalid_argument" {
		t.Fatalf("kind = %q, want invalid_argument", got)
	}
	if got := CodeRollUnknownTier.GRPCCode(); got != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", got)
	}
	if CodeRollUnknownTier.Kind() == CodeRollSyntax.Kind() {
		t.Fatal("expected unknown tier not to be reported as a syntax error")
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("evaluate: %w", WithMetadata(CodeRollZeroDice, "zero dice", nil))
	if !errors.Is(err, New(CodeRollZeroDice, "")) {
		t.Fatal("expected errors.Is to match by code")
	}
	if errors.Is(err, New(CodeRollDiceLimit, "")) {
		t.Fatal("expected different code not to match")
	}
	if KindOf(err) != KindHardLimit {
		t.Fatalf("expected hard limit kind, got %v", KindOf(err))
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Fatal("expected plain errors to be internal")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeRollInternal, "wrapped", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
}

func TestHandleErrorAttachesDetails(t *testing.T) {
	err := WithMetadata(CodeRollDiceUpsell, "dice over tier cap", map[string]string{"Limit": "1000"})

	st, ok := status.FromError(HandleError(err, "pt-BR"))
	if !ok {
		t.Fatal("expected gRPC status")
	}
	if st.Code() != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", st.Code())
	}

	var info *errdetails.ErrorInfo
	var localized *errdetails.LocalizedMessage
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			info = d
		case *errdetails.LocalizedMessage:
			localized = d
		}
	}
	if info == nil || info.GetReason() != string(CodeRollDiceUpsell) {
		t.Fatalf("expected error info with reason, got %v", info)
	}
	if info.GetMetadata()["kind"] != "upsell" {
		t.Fatalf("expected kind metadata, got %v", info.GetMetadata())
	}
	if localized == nil || localized.GetLocale() != "pt-BR" {
		t.Fatalf("expected pt-BR localized message, got %v", localized)
	}
}

func TestHandleErrorUnknown(t *testing.T) {
	st, _ := status.FromError(HandleError(errors.New("boom"), ""))
	if st.Code() != codes.Internal {
		t.Fatalf("expected Internal, got %v", st.Code())
	}
	if HandleError(nil, "") != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestLocalize(t *testing.T) {
	err := New(CodeRollKeepNothing, "keep nothing")
	if got := Localize(err, "en-US"); got != "You can't keep nothing" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Localize(nil, "en-US"); got != "" {
		t.Fatalf("expected empty message, got %q", got)
	}
}
