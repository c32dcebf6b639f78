package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
	"golang.org/x/crypto/bcrypt"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc            *TestContext
	response      *http.Response
	responseBody  []byte
	accessTokens  map[string]string // username -> access token
	refreshTokens map[string]string // username -> refresh token
	permissionIDs map[string]int    // permission name -> id
	userIDs       map[string]int    // username -> id
	productIDs    map[string]int    // product name -> id
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:            tc,
		accessTokens:  make(map[string]string),
		refreshTokens: make(map[string]string),
		permissionIDs: make(map[string]int),
		userIDs:       make(map[string]int),
		productIDs:    make(map[string]int),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^the Kick Shopping server is running$`, s.theServerIsRunning)
	sc.Step(`^the default roles exist$`, s.theDefaultRolesExist)
	sc.Step(`^an admin user "([^"]*)" with password "([^"]*)" exists$`, s.anAdminUserExists)
	sc.Step(`^a product "([^"]*)" priced ([0-9.]+) exists$`, s.aProductExists)
	sc.Step(`^a permission "([^"]*)" for "(GET|POST|PUT|PATCH|DELETE) ([^"]*)" granted to role (\d+) exists$`, s.aGrantedPermissionExists)

	// Authentication steps
	sc.Step(`^I register the user "([^"]*)" with password "([^"]*)"$`, s.iRegisterTheUser)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogIn)
	sc.Step(`^I refresh the session of "([^"]*)"$`, s.iRefreshTheSession)

	// Request steps
	sc.Step(`^I request "(GET|POST|PUT|PATCH|DELETE) ([^"]*)" without a token$`, s.iRequestWithoutToken)
	sc.Step(`^I request "(GET|POST|PUT|PATCH|DELETE) ([^"]*)" as "([^"]*)"$`, s.iRequestAs)
	sc.Step(`^I request "(GET|POST|PUT|PATCH|DELETE) ([^"]*)" as "([^"]*)" with body:$`, s.iRequestAsWithBody)
	sc.Step(`^I add (\d+) units? of "([^"]*)" to the cart of "([^"]*)"$`, s.iAddToCart)
	sc.Step(`^the admin "([^"]*)" removes the permission "([^"]*)" from role (\d+)$`, s.adminRemovesPermission)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response detail should be "([^"]*)"$`, s.theResponseDetailShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
	sc.Step(`^I should receive an access token and a refresh token$`, s.iShouldReceiveTokenPair)
}

// Background steps

func (s *StepsContext) theServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) theDefaultRolesExist() error {
	return s.tc.DB.Exec(`
		INSERT INTO roles (rol_id, rol_nombre) VALUES (1, 'administrador'), (2, 'comprador')
		ON CONFLICT DO NOTHING
	`).Error
}

func (s *StepsContext) anAdminUserExists(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.tc.DB.Exec(`
		INSERT INTO usuarios (usu_usuario, usu_contrasenia, usu_rol_id, usu_nombre_completo)
		VALUES (?, ?, 1, 'Administrador')
		ON CONFLICT (usu_usuario) DO NOTHING
	`, username, string(hash)).Error
}

func (s *StepsContext) aProductExists(name string, price float64) error {
	var productID int
	if err := s.tc.DB.Raw(`
		INSERT INTO products (name, price) VALUES (?, ?) RETURNING id
	`, name, price).Scan(&productID).Error; err != nil {
		return err
	}
	s.productIDs[name] = productID
	return nil
}

func (s *StepsContext) aGrantedPermissionExists(name, method, path string, roleID int) error {
	if err := s.tc.DB.Exec(`
		INSERT INTO permisos (permiso_nombre, permiso_ruta, permiso_metodo, permiso_activo)
		VALUES (?, ?, ?, true)
		ON CONFLICT (permiso_nombre) DO NOTHING
	`, name, path, method).Error; err != nil {
		return err
	}

	var permissionID int
	if err := s.tc.DB.Raw(`
		SELECT permiso_id FROM permisos WHERE permiso_nombre = ?
	`, name).Scan(&permissionID).Error; err != nil {
		return err
	}
	s.permissionIDs[name] = permissionID

	return s.tc.DB.Exec(`
		INSERT INTO rol_permiso (rol_id, permiso_id) VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`, roleID, permissionID).Error
}

// Authentication steps

func (s *StepsContext) iRegisterTheUser(email, password string) error {
	body := map[string]string{
		"email":      email,
		"first_name": "Test",
		"last_name":  "User",
		"password":   password,
	}
	if err := s.doJSON("POST", "/usuarios", "", body); err != nil {
		return err
	}
	s.captureTokens(email)
	return nil
}

func (s *StepsContext) iLogIn(username, password string) error {
	body := map[string]string{"username": username, "password": password}
	if err := s.doJSON("POST", "/usuarios/login", "", body); err != nil {
		return err
	}
	s.captureTokens(username)
	return nil
}

func (s *StepsContext) iRefreshTheSession(username string) error {
	refresh, ok := s.refreshTokens[username]
	if !ok {
		return fmt.Errorf("no refresh token stored for %s", username)
	}
	body := map[string]string{"refresh_token": refresh}
	if err := s.doJSON("POST", "/usuarios/refresh", "", body); err != nil {
		return err
	}
	s.captureTokens(username)
	return nil
}

// captureTokens stores the token pair from the last response, if any
func (s *StepsContext) captureTokens(username string) {
	if s.response.StatusCode >= 300 {
		return
	}
	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		UserID       int    `json:"user_id"`
	}
	if err := json.Unmarshal(s.responseBody, &tokens); err != nil {
		return
	}
	if tokens.AccessToken != "" {
		s.accessTokens[username] = tokens.AccessToken
	}
	if tokens.RefreshToken != "" {
		s.refreshTokens[username] = tokens.RefreshToken
	}
	if tokens.UserID != 0 {
		s.userIDs[username] = tokens.UserID
	}
}

// Request steps

func (s *StepsContext) iRequestWithoutToken(method, path string) error {
	return s.do(method, path, "", nil)
}

func (s *StepsContext) iRequestAs(method, path, username string) error {
	accessToken, ok := s.accessTokens[username]
	if !ok {
		return fmt.Errorf("no access token stored for %s", username)
	}
	return s.do(method, path, accessToken, nil)
}

func (s *StepsContext) iRequestAsWithBody(method, path, username string, body *godog.DocString) error {
	accessToken, ok := s.accessTokens[username]
	if !ok {
		return fmt.Errorf("no access token stored for %s", username)
	}
	return s.do(method, path, accessToken, strings.NewReader(body.Content))
}

func (s *StepsContext) iAddToCart(quantity int, productName, username string) error {
	productID, ok := s.productIDs[productName]
	if !ok {
		return fmt.Errorf("no product id stored for %s", productName)
	}
	userID, ok := s.userIDs[username]
	if !ok {
		return fmt.Errorf("no user id stored for %s", username)
	}
	accessToken, ok := s.accessTokens[username]
	if !ok {
		return fmt.Errorf("no access token stored for %s", username)
	}
	body := map[string]int{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return s.do("POST", "/cart_items", accessToken, bytes.NewReader(payload))
}

func (s *StepsContext) adminRemovesPermission(admin, permissionName string, roleID int) error {
	permissionID, ok := s.permissionIDs[permissionName]
	if !ok {
		return fmt.Errorf("no permission id stored for %s", permissionName)
	}
	accessToken, ok := s.accessTokens[admin]
	if !ok {
		return fmt.Errorf("no access token stored for %s", admin)
	}
	body := map[string]interface{}{
		"rol_id":      roleID,
		"permiso_ids": []int{permissionID},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	if err := s.do("POST", "/permisos/rol/remove", accessToken, bytes.NewReader(payload)); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("removing permission failed with status %d: %s", s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) doJSON(method, path, accessToken string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return s.do(method, path, accessToken, bytes.NewReader(payload))
}

func (s *StepsContext) do(method, path, accessToken string, body io.Reader) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseDetailShouldBe(expected string) error {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if body.Detail != expected {
		return fmt.Errorf("expected detail %q, got %q", expected, body.Detail)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("expected response to contain %q, got %s", expected, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iShouldReceiveTokenPair() error {
	var tokens struct {
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(s.responseBody, &tokens); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokens.AccessToken == "" {
		return fmt.Errorf("missing access_token in response")
	}
	if tokens.RefreshToken == "" {
		return fmt.Errorf("missing refresh_token in response")
	}
	if tokens.TokenType != "bearer" {
		return fmt.Errorf("expected token_type 'bearer', got %q", tokens.TokenType)
	}
	return nil
}
