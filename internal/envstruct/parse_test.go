package envstruct_test

import (
	"github.com/homecrimes/caseroom/internal/envstruct"
	"github.com/stretchr/testify/require"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestPopulate(t *testing.T) {
	type args struct {
		v         any
		lookupEnv func(string) (string, bool)
	}
	unset := func(_ string) (string, bool) { return "", false }
	tests := []struct {
		name    string
		args    args
		want    any
		wantErr error
	}{
		{
			name:    "nil",
			args:    args{v: nil, lookupEnv: unset},
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name:    "not pointer",
			args:    args{v: struct{}{}, lookupEnv: unset},
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name: "missing without default",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Secret string `env:"CASEROOM_ACCESS_CODE_SECRET"`
				}{},
				lookupEnv: unset,
			},
			wantErr: envstruct.ErrEnvNotSet,
		},
		{
			name: "picks correct env variable",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Addr       string `env:"CASEROOM_ADDR"`
					SqliteURL  string `env:"CASEROOM_SQLITE_URL"`
					OtherValue string
				}{},
				lookupEnv: func(s string) (string, bool) { return strings.ToLower(s), true },
			},
			want: &struct {
				Addr       string
				SqliteURL  string
				OtherValue string
			}{Addr: "caseroom_addr", SqliteURL: "caseroom_sqlite_url", OtherValue: ""},
		},
		{
			name: "defaults for every supported type",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Addr     string        `env:"CASEROOM_ADDR" envDefault:"localhost:4000"`
					Attempts int           `env:"CASEROOM_ACCESS_ATTEMPTS" envDefault:"5"`
					Demo     bool          `env:"CASEROOM_ALLOW_DEMO" envDefault:"true"`
					TTL      time.Duration `env:"CASEROOM_CONTENT_TTL" envDefault:"5m"`
				}{},
				lookupEnv: unset,
			},
			want: &struct {
				Addr     string
				Attempts int
				Demo     bool
				TTL      time.Duration
			}{Addr: "localhost:4000", Attempts: 5, Demo: true, TTL: 5 * time.Minute},
		},
		{
			name: "invalid int",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Attempts int `env:"CASEROOM_ACCESS_ATTEMPTS"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "many", true },
			},
			wantErr: strconv.ErrSyntax,
		},
		{
			name: "unsupported type",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Ratio float64 `env:"CASEROOM_RATIO"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "0.5", true },
			},
			wantErr: envstruct.ErrUnsupported,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.args.v
			err := envstruct.Populate(v, tt.args.lookupEnv)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.EqualValues(t, tt.want, v)
			}
		})
	}
}
