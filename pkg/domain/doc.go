// Package domain contains the core entities shared by the site services.
// They carry no infrastructure concerns so that handlers, mailers and tests
// can pass them around freely.
package domain
