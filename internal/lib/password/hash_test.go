package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompareHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		compare  string
		wantErr  bool
	}{
		{
			name:     "успешное сравнение пароля с хэшем",
			password: "super-secret-123",
			compare:  "super-secret-123",
			wantErr:  false,
		},
		{
			name:     "неверный пароль",
			password: "super-secret-123",
			compare:  "wrong-password",
			wantErr:  true,
		},
		{
			name:     "пустой пароль",
			password: "",
			compare:  "",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)
			require.NotEqual(t, tt.password, hash)

			err = CompareHash(hash, tt.compare)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
