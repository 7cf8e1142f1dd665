package telephony

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hireloop/interviewai/internal/telephony"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

type TwilioCaller struct {
	client     *twilio.RestClient
	fromNumber string
}

func NewTwilioCaller(cfg TwilioConfig) (telephony.Caller, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("twilio credentials are required")
	}
	if cfg.FromNumber == "" {
		return nil, fmt.Errorf("twilio from number is required")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioCaller{client: client, fromNumber: cfg.FromNumber}, nil
}

func (c *TwilioCaller) PlaceCall(_ context.Context, toNumber, script string) error {
	params := &openapi.CreateCallParams{}
	params.SetTo(toNumber)
	params.SetFrom(c.fromNumber)
	params.SetTwiml(script)

	call, err := c.client.Api.CreateCall(params)
	if err != nil {
		return fmt.Errorf("create call: %w", err)
	}
	sid := ""
	if call.Sid != nil {
		sid = *call.Sid
	}
	slog.Info("placed outbound call", "to", toNumber, "call_sid", sid)
	return nil
}
