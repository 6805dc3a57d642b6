package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sumeetprajapati1996/food-order-backend/internal/logger"
)

const tokenRefreshLeeway = 30 * time.Second

// SMSService delivers one-time codes through an Eskiz-style SMS gateway. The
// gateway hands out short-lived bearer tokens, so the client caches the token
// and refreshes it on expiry or on a 401.
type SMSService struct {
	baseURL  string
	email    string
	password string
	sender   string
	enabled  bool

	mu          sync.RWMutex
	token       string
	tokenExpiry time.Time

	client *http.Client
}

// NewSMSService constructs an SMSService.
func NewSMSService(baseURL, email, password, sender string, enabled bool) *SMSService {
	return &SMSService{
		baseURL:  strings.TrimRight(baseURL, "/"),
		email:    email,
		password: password,
		sender:   sender,
		enabled:  enabled,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SendOtp delivers a verification code to the phone number. When the gateway
// is disabled the code is logged instead so local flows stay testable.
func (s *SMSService) SendOtp(ctx context.Context, phone string, code int) error {
	if !s.enabled {
		logger.Info("sms gateway disabled, code not sent",
			zap.String("phone", phone),
			zap.Int("otp", code),
		)
		return nil
	}

	message := fmt.Sprintf("Your verification code is %d", code)
	return s.send(ctx, phone, message)
}

type smsAuthResponse struct {
	Data struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	} `json:"data"`
}

func (s *SMSService) getToken(ctx context.Context, force bool) (string, error) {
	if !force {
		s.mu.RLock()
		if s.token != "" && time.Now().Before(s.tokenExpiry) {
			t := s.token
			s.mu.RUnlock()
			return t, nil
		}
		s.mu.RUnlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock.
	if !force && s.token != "" && time.Now().Before(s.tokenExpiry) {
		return s.token, nil
	}

	payload, _ := json.Marshal(map[string]string{
		"email":    s.email,
		"password": s.password,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("sms auth request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sms auth request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sms auth failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var authResp smsAuthResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return "", fmt.Errorf("sms auth unmarshal: %w", err)
	}

	if authResp.Data.Token == "" {
		return "", errors.New("sms auth: empty token")
	}

	s.token = authResp.Data.Token
	if authResp.Data.ExpiresIn > 0 {
		s.tokenExpiry = time.Now().Add(time.Duration(authResp.Data.ExpiresIn)*time.Second - tokenRefreshLeeway)
	} else {
		s.tokenExpiry = time.Now().Add(55 * time.Minute)
	}

	return s.token, nil
}

func (s *SMSService) send(ctx context.Context, phone, message string) error {
	body := map[string]string{
		"mobile_phone": phone,
		"message":      message,
		"from":         s.sender,
	}

	resp, status, err := s.doSend(ctx, body, false)
	if err != nil {
		return err
	}

	// Retry once with a fresh token on 401.
	if status == http.StatusUnauthorized {
		resp, status, err = s.doSend(ctx, body, true)
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		return fmt.Errorf("sms send: status %d, body: %s", status, string(resp))
	}

	return nil
}

func (s *SMSService) doSend(ctx context.Context, body map[string]string, forceToken bool) ([]byte, int, error) {
	token, err := s.getToken(ctx, forceToken)
	if err != nil {
		return nil, 0, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("sms send marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/message/sms/send", bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("sms send request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("sms send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	return respBody, resp.StatusCode, nil
}
