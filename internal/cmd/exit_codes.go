package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/spf13/pflag"

	"github.com/aanbieders/aanbieders-cli/internal/api"
	"github.com/aanbieders/aanbieders-cli/internal/config"
)

const (
	exitOK       = 0
	exitGeneric  = 1
	exitUsage    = 2
	exitAuth     = 3
	exitNotFound = 4
	exitServer   = 7
	exitNetwork  = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	switch {
	case api.IsConfigError(err), api.IsEncodingError(err):
		return exitUsage
	case errors.Is(err, config.ErrNotConfigured):
		return exitAuth
	case api.IsResponseParseError(err):
		return exitGeneric
	}

	if code := exitCodeFromStatus(api.StatusCode(err)); code != 0 {
		return code
	}
	if isNetworkError(err) {
		return exitNetwork
	}
	if isUsageError(err) {
		return exitUsage
	}
	return exitGeneric
}

func exitCodeFromStatus(status int) int {
	switch {
	case status == 0:
		return 0
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return exitAuth
	case status == http.StatusNotFound:
		return exitNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return exitUsage
	case status >= 500:
		return exitServer
	default:
		return exitGeneric
	}
}

func isNetworkError(err error) bool {
	var tErr *api.TransportError
	if errors.As(err, &tErr) && tErr.StatusCode == 0 {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	indicators := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"requires at least",
		"requires exactly",
		"accepts ",
		"invalid argument",
		"invalid output format",
		"invalid parameter",
	}
	for _, indicator := range indicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
