package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const DeclineToken = "tok_decline"

// SandboxGateway approves every capture except those carrying DeclineToken.
// Used when no processor key is configured.
type SandboxGateway struct {
	MinAmount int64
}

func (g *SandboxGateway) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := Validate(req, g.MinAmount); err != nil {
		return nil, err
	}
	if req.Token == DeclineToken {
		return nil, &DeclineError{Reason: "card declined"}
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return &CaptureResult{
		Reference:    "SBX-" + strings.ToUpper(id[:16]),
		ClientSecret: "sbx_secret_" + id,
	}, nil
}
