package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"golang.org/x/time/rate"
)

// TwilioConfig carries the credentials for the WhatsApp sender.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string // "whatsapp:+14155238886"
	// SendsPerSecond caps outbound throughput; 0 means no limit.
	SendsPerSecond float64
}

// TwilioGateway sends WhatsApp messages through the Twilio REST API.
type TwilioGateway struct {
	client  *twilio.RestClient
	from    string
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// NewTwilioGateway builds the gateway, validating credentials up front.
func NewTwilioGateway(cfg TwilioConfig, logger *zerolog.Logger) (*TwilioGateway, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil, fmt.Errorf("missing twilio credentials")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	var limiter *rate.Limiter
	if cfg.SendsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.SendsPerSecond), int(cfg.SendsPerSecond)+1)
	}

	return &TwilioGateway{
		client:  client,
		from:    cfg.From,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Send delivers one WhatsApp message. Failures are logged and swallowed.
func (g *TwilioGateway) Send(ctx context.Context, recipient, text string) bool {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			g.logger.Warn().Err(err).Str("to", recipient).Msg("send aborted waiting for rate limiter")
			return false
		}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(g.from)
	params.SetTo("whatsapp:" + FormatPhone(recipient))
	params.SetBody(text)

	resp, err := g.client.Api.CreateMessage(params)
	if err != nil {
		g.logger.Warn().Err(err).Str("to", recipient).Msg("whatsapp send failed")
		return false
	}
	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		g.logger.Warn().Int("code", *resp.ErrorCode).Str("to", recipient).Msg("whatsapp send rejected")
		return false
	}
	return true
}

// FormatPhone normalizes a phone number to E.164, stripping any transport
// prefix first.
func FormatPhone(phone string) string {
	phone = strings.TrimPrefix(phone, "whatsapp:")

	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "+" + digits.String()
}
