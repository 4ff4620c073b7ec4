package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/webshop-qa/storefront-e2e/config"
	"github.com/webshop-qa/storefront-e2e/pages"
)

// Display names of the catalog items the cart and checkout flows work
// with.
const (
	backpackDisplayName  = "Sauce Labs Backpack"
	bikeLightDisplayName = "Sauce Labs Bike Light"
)

// Checkout validation data record keys.
const (
	dataKeyUsername      = "username"
	dataKeyPassword      = "password"
	dataKeyFirstName     = "first_name"
	dataKeyLastName      = "last_name"
	dataKeyPostalCode    = "postal_code"
	dataKeyExpectedError = "expected_error"
)

// BuiltIn returns the scenario catalog bound to the given run
// configuration. User lists and data records are resolved here so that
// expansion stays a pure reordering step.
func BuiltIn(cfg config.Config) []Scenario {
	scenarios := []Scenario{
		successfulLogin(cfg),
		lockedOutLogin(cfg),
	}
	// The credential combinations come from the config document, the
	// scenario has nothing to submit without them.
	if len(cfg.TestData.InvalidCredentials) > 0 {
		scenarios = append(scenarios, invalidCredentialsLogin(cfg))
	}
	return append(scenarios,
		errorMessageDismiss(cfg),
		cartBadgeAddRemove(cfg),
		inventorySorting(cfg),
		fullPurchaseFlow(cfg),
		checkoutMissingFieldValidation(cfg),
		checkoutCancelReturnsToCart(cfg),
		continueShoppingReturnsToInventory(cfg),
	)
}

func successfulLogin(cfg config.Config) Scenario {
	return Scenario{
		Name:  "successful_login",
		Tags:  []Tag{TagSmoke, TagLogin},
		Users: cfg.UserKeysWithout(config.BehaviorLocked),
		Run: func(f *Flow) error {
			login := f.LoginPage()
			if err := login.Navigate(); err != nil {
				return err
			}

			inventory, err := login.Login(f.User.Username, f.User.Password)
			if err != nil {
				return err
			}
			if url := inventory.CurrentURL(); !strings.Contains(url, pages.InventoryURLPart) {
				return failf("expected the product catalog after login, got %s", url)
			}

			badge, err := inventory.CartBadgeCount()
			if err != nil {
				return err
			}
			if badge != 0 {
				return failf("expected an empty cart after a fresh login, badge reads %d", badge)
			}
			return nil
		},
	}
}

func lockedOutLogin(cfg config.Config) Scenario {
	return Scenario{
		Name:  "locked_out_login",
		Tags:  []Tag{TagSmoke, TagNegative, TagLogin},
		Users: userKeysWithBehavior(cfg, config.BehaviorLocked),
		Run: func(f *Flow) error {
			login := f.LoginPage()
			if err := login.Navigate(); err != nil {
				return err
			}
			if err := login.SubmitLogin(f.User.Username, f.User.Password); err != nil {
				return err
			}

			msg, err := login.ErrorMessage()
			if err != nil {
				return err
			}
			if !strings.Contains(msg, pages.LockedOutMessage) {
				return failf("expected the lockout message, got %q", msg)
			}
			if url := login.CurrentURL(); strings.Contains(url, pages.InventoryURLPart) {
				return failf("locked out user reached the product catalog: %s", url)
			}
			// The rejection is this scenario's terminal state, nothing
			// to navigate further.
			return nil
		},
	}
}

func invalidCredentialsLogin(cfg config.Config) Scenario {
	var records []DataRecord
	for i, cred := range cfg.TestData.InvalidCredentials {
		records = append(records, DataRecord{
			Name: fmt.Sprintf("combo-%d", i+1),
			Values: map[string]string{
				dataKeyUsername: cred.Username,
				dataKeyPassword: cred.Password,
			},
		})
	}

	return Scenario{
		Name: "invalid_credentials_login",
		Tags: []Tag{TagRegression, TagNegative, TagLogin},
		Data: records,
		Run: func(f *Flow) error {
			login := f.LoginPage()
			if err := login.Navigate(); err != nil {
				return err
			}
			if err := login.SubmitLogin(f.Data.Values[dataKeyUsername], f.Data.Values[dataKeyPassword]); err != nil {
				return err
			}

			if !login.IsErrorDisplayed() {
				return failf("expected an error message for credentials %q/%q", f.Data.Values[dataKeyUsername], f.Data.Values[dataKeyPassword])
			}
			if url := login.CurrentURL(); strings.Contains(url, pages.InventoryURLPart) {
				return failf("invalid credentials reached the product catalog: %s", url)
			}
			return nil
		},
	}
}

func errorMessageDismiss(cfg config.Config) Scenario {
	return Scenario{
		Name: "error_message_dismiss",
		Tags: []Tag{TagRegression, TagNegative, TagLogin},
		Run: func(f *Flow) error {
			login := f.LoginPage()
			if err := login.Navigate(); err != nil {
				return err
			}
			if err := login.SubmitLogin("no_such_user", "no_such_password"); err != nil {
				return err
			}
			if !login.IsErrorDisplayed() {
				return failf("expected an error message for unknown credentials")
			}

			if err := login.DismissError(); err != nil {
				return err
			}
			if login.IsErrorDisplayed() {
				return failf("error message still displayed after dismissing it")
			}
			return nil
		},
	}
}

func cartBadgeAddRemove(cfg config.Config) Scenario {
	return Scenario{
		Name:  "cart_badge_add_remove",
		Tags:  []Tag{TagSmoke, TagCart},
		Users: primaryUserKeys(cfg),
		Run: func(f *Flow) error {
			inventory, err := loginToInventory(f)
			if err != nil {
				return err
			}

			items := []string{pages.ItemBackpack, pages.ItemBikeLight, pages.ItemBoltTShirt}
			for i, item := range items {
				if err := inventory.AddItem(item); err != nil {
					return err
				}
				if err := expectBadge(inventory, i+1); err != nil {
					return err
				}
			}

			if err := inventory.RemoveItem(pages.ItemBikeLight); err != nil {
				return err
			}
			if err := expectBadge(inventory, 2); err != nil {
				return err
			}

			for _, item := range []string{pages.ItemBackpack, pages.ItemBoltTShirt} {
				if err := inventory.RemoveItem(item); err != nil {
					return err
				}
			}
			return expectBadge(inventory, 0)
		},
	}
}

func inventorySorting(cfg config.Config) Scenario {
	return Scenario{
		Name:  "inventory_sorting",
		Tags:  []Tag{TagRegression},
		Users: primaryUserKeys(cfg),
		Run: func(f *Flow) error {
			inventory, err := loginToInventory(f)
			if err != nil {
				return err
			}

			if err := inventory.SortBy(pages.SortNameDescending); err != nil {
				return err
			}
			names, err := inventory.ItemNames()
			if err != nil {
				return err
			}
			if !sort.SliceIsSorted(names, func(i, j int) bool { return names[i] > names[j] }) {
				return failf("product names not in descending order: %v", names)
			}

			if err := inventory.SortBy(pages.SortPriceAscending); err != nil {
				return err
			}
			prices, err := inventory.ItemPrices()
			if err != nil {
				return err
			}
			if !sort.Float64sAreSorted(prices) {
				return failf("product prices not in ascending order: %v", prices)
			}
			return nil
		},
	}
}

func fullPurchaseFlow(cfg config.Config) Scenario {
	return Scenario{
		Name:  "full_purchase_flow",
		Tags:  []Tag{TagSmoke, TagCart, TagCheckout},
		Users: primaryUserKeys(cfg),
		Run: func(f *Flow) error {
			inventory, err := loginToInventory(f)
			if err != nil {
				return err
			}

			for _, item := range []string{pages.ItemBackpack, pages.ItemBikeLight} {
				if err := inventory.AddItem(item); err != nil {
					return err
				}
			}
			if err := expectBadge(inventory, 2); err != nil {
				return err
			}

			cart, err := inventory.OpenCart()
			if err != nil {
				return err
			}
			names, err := cart.ItemNames()
			if err != nil {
				return err
			}
			for _, want := range []string{backpackDisplayName, bikeLightDisplayName} {
				if !containsString(names, want) {
					return failf("cart is missing %q, contains %v", want, names)
				}
			}

			info, err := cart.Checkout()
			if err != nil {
				return err
			}
			customer := f.Config.TestData.CustomerInfo
			if err := info.FillInfo(customer.FirstName, customer.LastName, customer.PostalCode); err != nil {
				return err
			}

			overview, err := info.Continue()
			if err != nil {
				return err
			}
			overviewNames, err := overview.ItemNames()
			if err != nil {
				return err
			}
			if len(overviewNames) != 2 {
				return failf("expected 2 items in the order overview, got %v", overviewNames)
			}

			complete, err := overview.Finish()
			if err != nil {
				return err
			}
			header, err := complete.CompleteHeader()
			if err != nil {
				return err
			}
			if header != pages.OrderCompleteHeader {
				return failf("unexpected order confirmation header: %q", header)
			}

			inventory, err = complete.BackHome()
			if err != nil {
				return err
			}
			return expectBadge(inventory, 0)
		},
	}
}

func checkoutMissingFieldValidation(cfg config.Config) Scenario {
	customer := cfg.TestData.CustomerInfo
	records := []DataRecord{
		{
			Name: "missing-first-name",
			Values: map[string]string{
				dataKeyFirstName:     "",
				dataKeyLastName:      customer.LastName,
				dataKeyPostalCode:    customer.PostalCode,
				dataKeyExpectedError: pages.FirstNameRequiredMessage,
			},
		},
		{
			Name: "missing-last-name",
			Values: map[string]string{
				dataKeyFirstName:     customer.FirstName,
				dataKeyLastName:      "",
				dataKeyPostalCode:    customer.PostalCode,
				dataKeyExpectedError: pages.LastNameRequiredMessage,
			},
		},
		{
			Name: "missing-postal-code",
			Values: map[string]string{
				dataKeyFirstName:     customer.FirstName,
				dataKeyLastName:      customer.LastName,
				dataKeyPostalCode:    "",
				dataKeyExpectedError: pages.PostalCodeRequiredMessage,
			},
		},
	}

	return Scenario{
		Name:  "checkout_missing_field_validation",
		Tags:  []Tag{TagRegression, TagNegative, TagCheckout},
		Users: primaryUserKeys(cfg),
		Data:  records,
		Run: func(f *Flow) error {
			info, err := loginToCheckoutInfo(f)
			if err != nil {
				return err
			}

			if err := info.FillInfo(f.Data.Values[dataKeyFirstName], f.Data.Values[dataKeyLastName], f.Data.Values[dataKeyPostalCode]); err != nil {
				return err
			}
			if err := info.SubmitContinue(); err != nil {
				return err
			}

			msg, err := info.ErrorMessage()
			if err != nil {
				return err
			}
			if want := f.Data.Values[dataKeyExpectedError]; !strings.Contains(msg, want) {
				return failf("expected validation message %q, got %q", want, msg)
			}
			if url := info.CurrentURL(); !strings.Contains(url, pages.CheckoutInfoURLPart) {
				return failf("expected to stay on the checkout form, got %s", url)
			}
			return nil
		},
	}
}

func checkoutCancelReturnsToCart(cfg config.Config) Scenario {
	return Scenario{
		Name:  "checkout_cancel_returns_to_cart",
		Tags:  []Tag{TagRegression, TagCheckout},
		Users: primaryUserKeys(cfg),
		Run: func(f *Flow) error {
			info, err := loginToCheckoutInfo(f)
			if err != nil {
				return err
			}

			cart, err := info.Cancel()
			if err != nil {
				return err
			}
			if url := cart.CurrentURL(); !strings.Contains(url, pages.CartURLPart) {
				return failf("expected the cart after cancelling checkout, got %s", url)
			}

			count, err := cart.ItemCount()
			if err != nil {
				return err
			}
			if count != 1 {
				return failf("cart content lost while cancelling checkout, %d items left", count)
			}
			return nil
		},
	}
}

func continueShoppingReturnsToInventory(cfg config.Config) Scenario {
	return Scenario{
		Name:  "continue_shopping_returns_to_inventory",
		Tags:  []Tag{TagRegression, TagCart},
		Users: primaryUserKeys(cfg),
		Run: func(f *Flow) error {
			inventory, err := loginToInventory(f)
			if err != nil {
				return err
			}
			if err := inventory.AddItem(pages.ItemBackpack); err != nil {
				return err
			}

			cart, err := inventory.OpenCart()
			if err != nil {
				return err
			}
			inventory, err = cart.ContinueShopping()
			if err != nil {
				return err
			}

			if url := inventory.CurrentURL(); !strings.Contains(url, pages.InventoryURLPart) {
				return failf("expected the product catalog after continuing shopping, got %s", url)
			}
			return expectBadge(inventory, 1)
		},
	}
}

func loginToInventory(f *Flow) (*pages.InventoryPage, error) {
	login := f.LoginPage()
	if err := login.Navigate(); err != nil {
		return nil, err
	}
	return login.Login(f.User.Username, f.User.Password)
}

func loginToCheckoutInfo(f *Flow) (*pages.CheckoutInfoPage, error) {
	inventory, err := loginToInventory(f)
	if err != nil {
		return nil, err
	}
	if err := inventory.AddItem(pages.ItemBackpack); err != nil {
		return nil, err
	}
	cart, err := inventory.OpenCart()
	if err != nil {
		return nil, err
	}
	return cart.Checkout()
}

func expectBadge(inventory *pages.InventoryPage, want int) error {
	badge, err := inventory.CartBadgeCount()
	if err != nil {
		return err
	}
	if badge != want {
		return failf("expected the cart badge to read %d, got %d", want, badge)
	}
	return nil
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func userKeysWithBehavior(cfg config.Config, behavior config.Behavior) []string {
	var keys []string
	for _, key := range cfg.UserKeys() {
		if cfg.Users[key].Behavior == behavior {
			keys = append(keys, key)
		}
	}
	return keys
}

// primaryUserKeys picks the users driving the stateful shopping flows.
// Normal users only, so buggy and throttled variants exercise the
// login scenarios without tripling every cart and checkout run.
func primaryUserKeys(cfg config.Config) []string {
	return userKeysWithBehavior(cfg, config.BehaviorNormal)
}
