package pages

import (
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/webshop-qa/storefront-e2e/session"
)

// Login page locators.
const (
	selUsernameInput = `[data-test="username"]`
	selPasswordInput = `[data-test="password"]`
	selLoginButton   = `[data-test="login-button"]`
	selLoginError    = `[data-test="error"]`
	selErrorButton   = `[data-test="error-button"]`
	selLoginLogo     = `.login_logo`
	selLoginWrapper  = `.login_wrapper`
)

// Error message fragments the target application shows on the login
// form. Asserted with substring matching as the full messages carry an
// "Epic sadface:" prefix.
const (
	LockedOutMessage          = "Sorry, this user has been locked out"
	InvalidCredentialsMessage = "Username and password do not match any user in this service"
	UsernameRequiredMessage   = "Username is required"
)

// LoginPage drives the login form of the target application. A
// successful Login hands over the InventoryPage as the next screen of
// the flow.
type LoginPage struct {
	base
	baseURL string
}

// NewLoginPage ...
func NewLoginPage(sess *session.Session, logger log.Logger, baseURL string) *LoginPage {
	return &LoginPage{base: newBase(sess, logger), baseURL: baseURL}
}

// Name ...
func (p *LoginPage) Name() string {
	return "login"
}

// Navigate opens the login page and waits for the form to be usable.
func (p *LoginPage) Navigate() error {
	p.logger.Infof("Navigating to login page: %s", p.baseURL)
	if err := p.navigate(p.baseURL); err != nil {
		return err
	}
	return p.WaitUntilReady()
}

// WaitUntilReady ...
func (p *LoginPage) WaitUntilReady() error {
	if err := p.waitVisible(selUsernameInput); err != nil {
		return err
	}
	return p.waitVisible(selLoginButton)
}

// SubmitLogin fills the form and submits it without expecting any
// particular outcome. Negative scenarios use it directly.
func (p *LoginPage) SubmitLogin(username, password string) error {
	if err := p.fill(selUsernameInput, username); err != nil {
		return err
	}
	if err := p.fill(selPasswordInput, password); err != nil {
		return err
	}
	return p.click(selLoginButton)
}

// Login submits the credentials and waits for the inventory page,
// returning it as the next page object of the flow.
func (p *LoginPage) Login(username, password string) (*InventoryPage, error) {
	if err := p.SubmitLogin(username, password); err != nil {
		return nil, err
	}

	inventory := NewInventoryPage(p.session, p.logger)
	if err := inventory.WaitUntilReady(); err != nil {
		return nil, err
	}
	p.logger.Infof("Logged in as: %s", username)
	return inventory, nil
}

// ErrorMessage returns the text of the login error box.
func (p *LoginPage) ErrorMessage() (string, error) {
	return p.text(selLoginError)
}

// IsErrorDisplayed probes for the error box without failing.
func (p *LoginPage) IsErrorDisplayed() bool {
	return p.isVisible(selLoginError)
}

// DismissError closes the error box via its close control.
func (p *LoginPage) DismissError() error {
	if err := p.click(selErrorButton); err != nil {
		return err
	}
	return p.waitHidden(selLoginError)
}

// IsDisplayed probes whether the login form is still on screen.
func (p *LoginPage) IsDisplayed() bool {
	return p.isVisible(selLoginWrapper)
}

// CurrentURL ...
func (p *LoginPage) CurrentURL() string {
	return p.currentURL()
}
