package utils

import "testing"

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "event image with version",
			url:  "https://res.cloudinary.com/demo/image/upload/v1234567890/events/abc123.jpg",
			want: "events/abc123",
		},
		{
			name: "post image with version",
			url:  "https://res.cloudinary.com/demo/image/upload/v99/posts/nebula.png",
			want: "posts/nebula",
		},
		{
			name:    "not a cloudinary path",
			url:     "https://example.com/x",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractPublicID(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
