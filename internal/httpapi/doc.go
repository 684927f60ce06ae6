// Package httpapi exposes the session engine over JSON HTTP.
//
// Routes:
//
//	GET  /api/health   public
//	POST /api/login    public, sets the session cookie
//	GET  /api/verify   guarded
//	POST /api/logout   guarded, clears the session cookie
//	GET  /api/profile  guarded
//	GET  /metrics      when a metrics handler is supplied
//
// Every failure is written as {"success":false,"error":"..."}.
package httpapi
