// Copyright 2026 Supabase, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package connstring parses the "pq://" connection URI form: driver
// settings the transport itself needs (host, port, user, password,
// database, sslmode) live as ordinary URI components, while every other
// query parameter is forwarded verbatim as a startup parameter.
package connstring

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SSLMode selects the client's SSL negotiation behavior.
type SSLMode string

// SSL modes, in increasing order of strictness.
const (
	SSLDisable SSLMode = "disable"
	SSLAllow   SSLMode = "allow"
	SSLPrefer  SSLMode = "prefer"
	SSLRequire SSLMode = "require"
)

// Parsed is the result of parsing a pq:// connection string: the fields
// the transport layer needs directly, plus the leftover query
// parameters to forward as startup parameters.
type Parsed struct {
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	SSLMode    SSLMode
	Parameters map[string]string
}

// Parse parses a URI of the form:
//
//	pq://user:password@host:port/database?sslmode=require&application_name=foo
//
// "user", "password", "host", "port", "database", and "sslmode" are
// driver keys consumed here; every other query key is forwarded
// verbatim as a startup parameter (e.g. application_name, search_path).
func Parse(raw string) (Parsed, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Parsed{}, fmt.Errorf("connstring: %w", err)
	}
	if u.Scheme != "pq" && u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return Parsed{}, fmt.Errorf("connstring: unsupported scheme %q", u.Scheme)
	}

	p := Parsed{
		Host:       u.Hostname(),
		Port:       5432,
		SSLMode:    SSLPrefer,
		Parameters: map[string]string{},
	}

	if portStr := u.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Parsed{}, fmt.Errorf("connstring: invalid port %q", portStr)
		}
		p.Port = port
	}

	if u.User != nil {
		p.User = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			p.Password = pw
		}
	}

	if db := strings.TrimPrefix(u.Path, "/"); db != "" {
		p.Database = db
	}

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[0]
		switch strings.ToLower(key) {
		case "sslmode":
			p.SSLMode = SSLMode(value)
		case "user":
			p.User = value
		case "password":
			p.Password = value
		case "host":
			p.Host = value
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return Parsed{}, fmt.Errorf("connstring: invalid port %q", value)
			}
			p.Port = port
		case "dbname", "database":
			p.Database = value
		default:
			p.Parameters[key] = value
		}
	}

	return p, nil
}
