package common

import "testing"

func TestGetUserKeyFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{
			name: "explicit user key",
			args: map[string]interface{}{"user_key": "123456789"},
			want: "123456789",
		},
		{
			name: "whitespace trimmed",
			args: map[string]interface{}{"user_key": "  123456789  "},
			want: "123456789",
		},
		{
			name: "missing user key",
			args: map[string]interface{}{},
			want: "",
		},
		{
			name: "nil args",
			args: nil,
			want: "",
		},
		{
			name: "wrong type",
			args: map[string]interface{}{"user_key": 42},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetUserKeyFromArgs(tt.args); got != tt.want {
				t.Errorf("GetUserKeyFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}
