// Package web serves the device's single-page HTTP status view.
//
// The surface is deliberately tiny: GET / returns an HTML page with the
// device's instance name, IP address, and current (NTP-corrected) time;
// every other path is 404 and non-GET methods on / are 405. Request
// parsing and connection handling are owned by net/http.
package web
