package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"golang.org/x/time/rate"
)

// ModelInvoker is the generative model boundary. The interface exists so
// services and tests can swap in mock invokers without real API calls.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, request ModelRequest) (*ModelResponse, error)
	InvokeModelWithRetry(ctx context.Context, request ModelRequest) (*ModelResponse, error)
}

// Proactive throttle on outbound Bedrock calls, in requests per second.
// Keeps bursty traffic under the account quota before the service rejects it.
const throttleRate = 2.0

type Client struct {
	client     *bedrockruntime.Client
	modelID    string
	throttle   *rate.Limiter
	maxRetries int
}

var _ ModelInvoker = (*Client)(nil)

func NewClient(ctx context.Context, region string, modelID string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &Client{
		client:     bedrockruntime.NewFromConfig(cfg),
		modelID:    modelID,
		throttle:   rate.NewLimiter(rate.Limit(throttleRate), 1),
		maxRetries: 2,
	}, nil
}

func (c *Client) ModelID() string {
	return c.modelID
}
