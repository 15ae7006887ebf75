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

package connstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullURI(t *testing.T) {
	p, err := Parse("pq://alice:s3cret@db.example.com:6543/appdb?sslmode=require&application_name=myapp")
	require.NoError(t, err)

	assert.Equal(t, "db.example.com", p.Host)
	assert.Equal(t, 6543, p.Port)
	assert.Equal(t, "alice", p.User)
	assert.Equal(t, "s3cret", p.Password)
	assert.Equal(t, "appdb", p.Database)
	assert.Equal(t, SSLRequire, p.SSLMode)
	assert.Equal(t, "myapp", p.Parameters["application_name"])
}

func TestParseDefaults(t *testing.T) {
	p, err := Parse("postgres://localhost/mydb")
	require.NoError(t, err)
	assert.Equal(t, "localhost", p.Host)
	assert.Equal(t, 5432, p.Port)
	assert.Equal(t, SSLPrefer, p.SSLMode)
	assert.Equal(t, "mydb", p.Database)
}

func TestParseRejectsUnsupportedScheme(t *testing.T) {
	_, err := Parse("mysql://localhost/db")
	assert.Error(t, err)
}

func TestParseInvalidPort(t *testing.T) {
	_, err := Parse("pq://localhost:notaport/db")
	assert.Error(t, err)

	_, err = Parse("pq://localhost/db?port=notaport")
	assert.Error(t, err)
}

func TestParseQueryOverridesDriverKeys(t *testing.T) {
	p, err := Parse("pq://olduser@oldhost:1111/olddb?user=newuser&host=newhost&port=2222&dbname=newdb")
	require.NoError(t, err)
	assert.Equal(t, "newuser", p.User)
	assert.Equal(t, "newhost", p.Host)
	assert.Equal(t, 2222, p.Port)
	assert.Equal(t, "newdb", p.Database)
}

func TestParsePostgresqlScheme(t *testing.T) {
	_, err := Parse("postgresql://localhost/db")
	assert.NoError(t, err)
}
