package libraries

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityAdmin_UpdatePassword(t *testing.T) {
	var gotPath, gotAuth, gotPassword string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotPassword = body["password"]
		if body["password"] == "short" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"msg":"Password should be at least 6 characters"}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	admin, err := NewIdentityAdmin(srv.URL+"/", "service-key")
	require.NoError(t, err)

	require.NoError(t, admin.UpdatePassword(context.Background(), "user-1", "s3cret-pass"))
	assert.Equal(t, "/admin/users/user-1", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "s3cret-pass", gotPassword)

	err = admin.UpdatePassword(context.Background(), "user-1", "short")
	assert.EqualError(t, err, "Password should be at least 6 characters")

	_, err = NewIdentityAdmin("", "")
	assert.Error(t, err)
}
