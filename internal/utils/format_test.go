package utils

import (
	"testing"
	"time"
)

func TestNumber(t *testing.T) {
	var table = []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-42, "-42"},
		{-1234567, "-1,234,567"},
	}
	for _, tab := range table {
		if got := Number(tab.in); got != tab.want {
			t.Errorf("Number(%d) = %q, want %q", tab.in, got, tab.want)
		}
	}
}

func TestBytes(t *testing.T) {
	var table = []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{20 << 20, "20.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tab := range table {
		if got := Bytes(tab.in); got != tab.want {
			t.Errorf("Bytes(%d) = %q, want %q", tab.in, got, tab.want)
		}
	}
}

func TestDuration(t *testing.T) {
	var table = []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Millisecond, "0s"},
		{5200 * time.Millisecond, "5.2s"},
		{3*time.Minute + 5200*time.Millisecond, "3m5.2s"},
		{2*time.Hour + 15*time.Minute, "2h15m"},
	}
	for _, tab := range table {
		if got := Duration(tab.in); got != tab.want {
			t.Errorf("Duration(%v) = %q, want %q", tab.in, got, tab.want)
		}
	}
}

func TestRate(t *testing.T) {
	var table = []struct {
		in   float64
		want string
	}{
		{123.451, "123.45"},
		{12340, "12.34K"},
		{12340000, "12.34M"},
	}
	for _, tab := range table {
		if got := Rate(tab.in); got != tab.want {
			t.Errorf("Rate(%v) = %q, want %q", tab.in, got, tab.want)
		}
	}
}
