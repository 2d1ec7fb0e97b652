package scrape

import "github.com/brushtyler/pricesdropbot/pkg/browser"

// Listing pages vary their markup across product types and locales, so
// every structural lookup goes through an ordered candidate list instead of
// a single selector.

var productTitleLocators = []browser.Locator{
	browser.CSS("#productTitle"),
}

var unavailableLocators = []browser.Locator{
	browser.XPath("//div[@id='availability']//span[contains(text(), 'Attualmente non disponibile')]"),
	browser.XPath("//div[@id='availability']//span[contains(text(), 'Currently unavailable')]"),
	browser.XPath("//div[@id='availability']//span[contains(text(), 'Non disponibile')]"),
}

var mainOfferLocators = []browser.Locator{
	browser.XPath("//div[@id='qualifiedBuybox']"),
	browser.XPath("//div[@id='newAccordionRow_0']"),
	browser.XPath("//div[@id='newAccordionRow_1']"),
	browser.XPath("//div[@data-a-accordion-row-name='newAccordionRow']"),
	browser.XPath("//div[contains(@class, 'aod-pinned-offer')]"),
	browser.XPath("//div[@id='aod-sticky-pinned-offer']"),
	browser.XPath("//div[contains(@class, 'aod-offer-group') and .//input[@name='submit.addToCart']]"),
	browser.XPath("//div[@id='desktop_qualifiedBuyBox']"),
}

var priceWholeLocators = []browser.Locator{
	browser.XPath(".//span[contains(@class, 'a-price-whole')]"),
}

var priceFractionLocators = []browser.Locator{
	browser.XPath(".//span[contains(@class, 'a-price-fraction')]"),
}

// The main offer rarely labels "new" explicitly while "used" always is, so
// the default condition is New unless one of these matches.
var usedOverrideLocators = []browser.Locator{
	browser.XPath(".//*[contains(translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'usato')]"),
	browser.XPath(".//*[contains(translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'used')]"),
}

var itemCountLocators = []browser.Locator{
	browser.XPath("//tr[contains(@class, 'po-number_of_items')]/td[2]/span"),
	browser.XPath("//div[contains(@data-feature-name, 'metaData') and .//span[contains(text(), 'Numero di articoli')]]//span[@class='a-size-base a-color-tertiary']"),
	browser.XPath("//div[contains(@data-feature-name, 'metaData') and .//span[contains(text(), 'Number of Items')]]//span[@class='a-size-base a-color-tertiary']"),
	browser.XPath("//div[@id='detailBullets_feature_div']//span[contains(text(), 'Numero di articoli')]/following-sibling::span"),
	browser.XPath("//div[@id='detailBullets_feature_div']//span[contains(text(), 'Number of Items')]/following-sibling::span"),
}

var productImageLocators = []browser.Locator{
	browser.XPath("//img[@id='landingImage']"),
	browser.XPath("//img[@id='imgBlkFront']"),
	browser.XPath("//div[contains(@class, 'imgTagWrapper')]/img"),
}

// Secondary offers are the all-offers-display blocks that still carry an
// add-to-cart control; sold-out placeholder rows do not.
var otherOffersLocator = browser.XPath("//div[contains(@class, 'aod-information-block') and @role='listitem' and .//input[@name='submit.addToCart']]")

var offerConditionLocators = []browser.Locator{
	browser.XPath(".//div[@id='aod-offer-heading']/span"),
	browser.XPath(".//div[@id='aod-offer-heading']"),
}

var offerSoldByLocators = []browser.Locator{
	browser.XPath(".//div[@id='aod-offer-soldBy']//a"),
	browser.XPath(".//div[@id='aod-offer-soldBy']//span[contains(@class, 'a-color-base')]"),
}

var offerShipsFromLocators = []browser.Locator{
	browser.XPath(".//div[@id='aod-offer-shipsFrom']//span[contains(@class, 'a-color-base')]"),
}

var offerDeliveryLocators = []browser.Locator{
	browser.XPath(".//span[@data-csa-c-delivery-price]"),
}

// Interstitial banner phrases and the continue control, locale variants.
var interstitialLocators = []browser.Locator{
	browser.XPath("//h4[contains(text(), 'Fai clic sul pulsante qui sotto per continuare a fare acquisti')]"),
	browser.XPath("//h4[contains(text(), 'Type the characters you see in this image')]"),
	browser.XPath("//h4[contains(text(), 'Click the button below to continue shopping')]"),
}

var interstitialContinueLocators = []browser.Locator{
	browser.XPath("//button[contains(text(), 'Continua con gli acquisti')]"),
	browser.XPath("//button[contains(text(), 'Continue shopping')]"),
	browser.XPath("//button[contains(text(), 'Continue with your order')]"),
}
