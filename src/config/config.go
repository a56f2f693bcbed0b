package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// PassFeeAmount is the fixed fee charged for a bus pass, in whole currency units.
func PassFeeAmount() int64 {
	v := os.Getenv("PASS_FEE_AMOUNT")
	amount, err := strconv.ParseInt(v, 10, 64)
	if err != nil || amount <= 0 {
		return 1500
	}
	return amount
}

func PassFeeCurrency() string {
	currency := os.Getenv("PASS_FEE_CURRENCY")
	if currency == "" {
		return "INR"
	}
	return currency
}

// GatewayLatency is how long the simulated payment gateway waits before
// confirming a charge.
func GatewayLatency() time.Duration {
	v := os.Getenv("GATEWAY_LATENCY_MS")
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 {
		ms = 2000
	}
	return time.Duration(ms) * time.Millisecond
}
