package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/brightline-studio/site-backend/services"
)

type keyType string

const (
	adminSubjectKey keyType = "adminSubject"
)

// ctxWithAdminSubject adds the authenticated admin's subject to the context
func ctxWithAdminSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, adminSubjectKey, subject)
}

// ctxGetAdminSubject retrieves the admin subject, or "" outside admin routes
func ctxGetAdminSubject(ctx context.Context) string {
	subject, _ := ctx.Value(adminSubjectKey).(string)
	return subject
}

// requestMeta extracts the submitter's transport details. middleware.RealIP
// has already replaced RemoteAddr with the forwarded client address when a
// proxy header was present.
func requestMeta(r *http.Request) services.RequestMeta {
	return services.RequestMeta{
		IP:        clientIP(r.RemoteAddr),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
	}
}

// clientIP strips any port and returns "" for addresses that do not parse.
func clientIP(remoteAddr string) string {
	host := strings.TrimSpace(remoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return ""
	}
	return ip.String()
}
