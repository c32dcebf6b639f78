package routes

import "regexp"

// substitution rewrites one concrete path shape into its permission
// template.
type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

// normalizations is the ordered substitution list. Order matters: the
// multi-segment patterns must run before the bare numeric-id ones so that
// e.g. /cart_items/user/3/clear becomes /cart_items/user/{id}/clear and is
// not swallowed by the generic /cart_items/{id} rewrite.
var normalizations = []substitution{
	{regexp.MustCompile(`/cart_items/user/\d+/clear`), "/cart_items/user/{id}/clear"},
	{regexp.MustCompile(`/cart_items/user/\d+`), "/cart_items/user/{id}"},
	{regexp.MustCompile(`/permisos/usuario/\d+/permisos`), "/permisos/usuario/{id}/permisos"},
	{regexp.MustCompile(`/permisos/rol/\d+`), "/permisos/rol/{id}"},
	{regexp.MustCompile(`/permisos/ruta/[^/]+/metodo/[^/]+`), "/permisos/ruta/{ruta}/metodo/{metodo}"},
	{regexp.MustCompile(`/permisos/\d+`), "/permisos/{id}"},
	{regexp.MustCompile(`/usuarios/\d+`), "/usuarios/{id}"},
	{regexp.MustCompile(`/roles/\d+`), "/roles/{id}"},
	{regexp.MustCompile(`/productos/\d+`), "/productos/{id}"},
	{regexp.MustCompile(`/cart_items/\d+`), "/cart_items/{id}"},
}

// Normalize rewrites a concrete request path into the permission template
// it is authorized under. The output is deterministic and idempotent:
// templates contain no digits, so normalizing a template returns it
// unchanged. Paths matching no pattern pass through as-is and will simply
// not be found in the permission set.
func Normalize(path string) string {
	normalized := path
	for _, s := range normalizations {
		normalized = s.pattern.ReplaceAllString(normalized, s.replacement)
	}
	return normalized
}
