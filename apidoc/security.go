package apidoc

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// securitySchemeName is the key the single oauth2 scheme is registered
// under in components.securitySchemes.
const oauthSchemeName = "oauth"

// buildSecuritySchemes turns the security configuration into OpenAPI
// security schemes and the matching document-level requirements. An
// unknown OAuth flow is a fatal configuration error.
func buildSecuritySchemes(cfg Config) (openapi3.SecuritySchemes, openapi3.SecurityRequirements, error) {
	schemes := openapi3.SecuritySchemes{}
	var requirements openapi3.SecurityRequirements

	if cfg.OAuth != nil {
		scheme, err := oauthScheme(*cfg.OAuth)
		if err != nil {
			return nil, nil, err
		}
		schemes[oauthSchemeName] = &openapi3.SecuritySchemeRef{Value: scheme}
		requirements = append(requirements, openapi3.NewSecurityRequirement().Authenticate(oauthSchemeName))
	}

	names := make([]string, 0, len(cfg.APIKeys))
	for name := range cfg.APIKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		key := cfg.APIKeys[name]
		schemes[name] = &openapi3.SecuritySchemeRef{Value: &openapi3.SecurityScheme{
			Type:        "apiKey",
			Name:        key.Name,
			In:          key.In,
			Description: key.Description,
		}}
		requirements = append(requirements, openapi3.NewSecurityRequirement().Authenticate(name))
	}

	if len(schemes) == 0 {
		return nil, nil, nil
	}
	return schemes, requirements, nil
}

func oauthScheme(cfg OAuth) (*openapi3.SecurityScheme, error) {
	flow := &openapi3.OAuthFlow{
		AuthorizationURL: cfg.AuthorizationURL,
		TokenURL:         cfg.TokenURL,
		RefreshURL:       cfg.RefreshURL,
		Scopes:           cfg.Scopes,
	}
	if flow.Scopes == nil {
		flow.Scopes = map[string]string{}
	}

	flows := &openapi3.OAuthFlows{}
	switch cfg.Flow {
	case FlowImplicit:
		flows.Implicit = flow
	case FlowPassword:
		flows.Password = flow
	case FlowClientCredentials:
		flows.ClientCredentials = flow
	case FlowAuthorizationCode:
		flows.AuthorizationCode = flow
	default:
		return nil, fmt.Errorf("apidoc: unknown oauth flow %q", cfg.Flow)
	}

	return &openapi3.SecurityScheme{
		Type:        "oauth2",
		Description: "OAuth 2.0 authorization",
		Flows:       flows,
	}, nil
}
