package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/sessiond/internal/cache"
	"github.com/dropDatabas3/sessiond/internal/domain/repository"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
)

// HTTPResolver consulta un servicio de geolocalización JSON (estilo
// ip-api). Los resultados se memoizan en cache y los lookups concurrentes
// de la misma IP se deduplican con singleflight.
type HTTPResolver struct {
	BaseURL  string
	Client   *http.Client
	Cache    cache.Cache
	CacheTTL time.Duration

	group singleflight.Group
}

func NewHTTPResolver(baseURL string, timeout time.Duration, c cache.Cache, cacheTTL time.Duration) *HTTPResolver {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &HTTPResolver{
		BaseURL:  baseURL,
		Client:   &http.Client{Timeout: timeout},
		Cache:    c,
		CacheTTL: cacheTTL,
	}
}

// geoResponse es el payload del servicio de geolocalización.
type geoResponse struct {
	Status      string `json:"status"` // "success" | "fail"
	CountryCode string `json:"countryCode"`
	Country     string `json:"country"`
	RegionName  string `json:"regionName"`
	City        string `json:"city"`
}

func (r *HTTPResolver) Resolve(ctx context.Context, ip string) repository.Location {
	if ip == "" || !publicIP(ip) {
		return repository.Location{IP: ip}
	}

	if r.Cache != nil {
		if b, ok := r.Cache.Get("geo:" + ip); ok {
			var loc repository.Location
			if json.Unmarshal(b, &loc) == nil {
				return loc
			}
		}
	}

	v, err, _ := r.group.Do(ip, func() (any, error) {
		return r.fetch(ctx, ip)
	})
	if err != nil {
		logger.From(ctx).Debug("location lookup failed",
			logger.Component("location"),
			logger.ClientIP(ip),
			logger.Err(err),
		)
		return repository.Location{IP: ip}
	}

	loc := v.(repository.Location)
	if r.Cache != nil {
		if b, err := json.Marshal(loc); err == nil {
			r.Cache.Set("geo:"+ip, b, r.CacheTTL)
		}
	}
	return loc
}

func (r *HTTPResolver) fetch(ctx context.Context, ip string) (repository.Location, error) {
	u := fmt.Sprintf("%s/%s", r.BaseURL, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return repository.Location{}, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return repository.Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return repository.Location{}, fmt.Errorf("geo service: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<10))
	if err != nil {
		return repository.Location{}, err
	}
	var gr geoResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return repository.Location{}, err
	}
	if gr.Status != "" && gr.Status != "success" {
		return repository.Location{}, fmt.Errorf("geo service: status %q", gr.Status)
	}

	return repository.Location{
		IP:          ip,
		CountryCode: gr.CountryCode,
		Country:     gr.Country,
		Region:      gr.RegionName,
		City:        gr.City,
	}, nil
}

// publicIP descarta loopback, privadas y link-local: el servicio externo no
// puede resolverlas.
func publicIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return !(parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified())
}
