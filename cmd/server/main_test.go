package main

import (
	"testing"

	"frenz/gateway/internal/config"
)

func TestValidateSecurityConfigRejectsShortSecret(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "short"})
	if err == nil {
		t.Fatalf("expected weak security config to be rejected")
	}
}

func TestValidateSecurityConfigAllowsMissingRejectPIN(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef"})
	if err != nil {
		t.Fatalf("expected config without reject PIN to pass, got %v", err)
	}
}

func TestValidateSecurityConfigRejectsWeakPIN(t *testing.T) {
	for _, pin := range []string{"123456", "111111", "987654", "12345"} {
		err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef", RejectPIN: pin})
		if err == nil {
			t.Fatalf("expected PIN %q to be rejected", pin)
		}
	}
}

func TestValidateSecurityConfigAcceptsStrongValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef", RejectPIN: "739154"})
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
}
