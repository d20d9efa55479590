package telegram

import (
  "fmt"
  "html"
  "strings"

  "github.com/ushakovn/pricewatch/internal/models"
)

const (
  actionMainMenu     = "menu_main"
  actionCommandsMenu = "menu_commands"
  actionSettingsMenu = "menu_settings"
  actionEmailAdd     = "email_add"
  actionEmailDelete  = "email_delete"
  actionCancel       = "cancel"
)

const (
  textMainMenu     = "Personalize here"
  textCommandsMenu = "<code>/monitor</code>  In order to monitoring a product\n\n" +
    "<code>/delete</code>  In order to stop monitoring a product\n\n" +
    "<code>/summary</code> In order to visualize the monitor's list\n\n" +
    "<code>/cancel</code> In order to cancel the current procedure"

  textProductPrompt = "Enter the link or ASIN code of the product you want to track 🔗"
  textDeletePrompt  = "Enter the link or ASIN code of the product you want to stop tracking 🔗"
  textPricePrompt   = "Now choose the price below which you want to be notified! 📉"
  textEmailPrompt   = "✉️ Enter the email address you want to receive notifications on"

  textProductInvalid = "Link or ASIN not valid. Try again ❌"
  textPriceInvalid   = "Price target not valid. Try again ❌"
  textEmailInvalid   = "Email not valid, try again ❌"
  textTryAgain       = "Something went wrong, try again ⚠️"

  textEmailConfigured = "Email set up correctly, you will soon receive notifications in your inbox ✅"
  textEmailDeleted    = "✉️ email deleted ✅"

  textCancelled       = "Procedure cancelled ✅"
  textNothingToCancel = "Impossible to cancel an already finished procedure ⚠️"

  textSummaryEmpty  = "No products currently monitored, start doing so with <code>/monitor</code> ⚠️"
  textSummaryHeader = "Your current monitoring list 📄\n\n"
  textUnknownPrice  = "unknown"
)

var (
  commandsKeyboard = models.MustKeyboard(
    models.Row(models.ActionButton("Back ↩️", actionMainMenu)),
  )
  cancelKeyboard = models.MustKeyboard(
    models.Row(models.ActionButton("Cancel Procedure ↩️", actionCancel)),
  )
  backToSettingsKeyboard = models.MustKeyboard(
    models.Row(models.ActionButton("Back to menu ↩️", actionSettingsMenu)),
  )
  emailConfiguredKeyboard = models.MustKeyboard(
    models.Row(models.ActionButton("Remove Email 📭", actionEmailDelete)),
    models.Row(models.ActionButton("Back ↩️", actionMainMenu)),
  )
  emailMissingKeyboard = models.MustKeyboard(
    models.Row(models.ActionButton("Add Email 📬", actionEmailAdd)),
    models.Row(models.ActionButton("Back ↩️", actionMainMenu)),
  )
)

func (b *Transport) mainKeyboard() models.Keyboard {
  return models.MustKeyboard(
    models.Row(models.ActionButton("Commands 💡", actionCommandsMenu)),
    models.Row(models.ActionButton("Settings ⚙️", actionSettingsMenu)),
    models.Row(models.URLButton("Github 💻", b.config.ProjectURL)),
  )
}

func settingsMenu(email *string) (string, models.Keyboard) {
  const header = "🛠 <b>Settings Menu</b> 🛠\n\n"

  if email == nil || *email == "" {
    return header + "✉️ Email Status: <b>Not configured</b> ❌", emailMissingKeyboard
  }
  text := fmt.Sprintf("%s✉️ Email Status: <b>Configured</b>✅\n<code>%s</code>", header, html.EscapeString(*email))

  return text, emailConfiguredKeyboard
}

func textProductAdded(asin string, target string) string {
  return fmt.Sprintf("ASIN %s added to tracking list with target price %s ✅", asin, target)
}

func textAlreadyMonitored(asin string) string {
  return fmt.Sprintf("ASIN %s is already monitored for this chat. ⚠️", asin)
}

func textProductMissing(asin string) string {
  return fmt.Sprintf("Product %s is not present in your monitoring list ⚠️", asin)
}

func textProductRemoved(asin string) string {
  return fmt.Sprintf("Product %s has been successfully removed from your watch list ✅", asin)
}

func formatSummary(views []models.SubscriptionView) string {
  if len(views) == 0 {
    return textSummaryEmpty
  }

  sb := strings.Builder{}
  sb.WriteString(textSummaryHeader)

  for _, view := range views {
    title := view.Title
    if title == "" {
      title = "N/A"
    }
    lastPrice := textUnknownPrice
    if view.LastPrice > 0 {
      lastPrice = view.LastPrice.String()
    }

    sb.WriteString(fmt.Sprintf("<b>Title:</b> %s\n\n", html.EscapeString(title)))
    sb.WriteString(fmt.Sprintf("<b>ASIN:</b> <code>%s</code>\n", view.ASIN))
    sb.WriteString(fmt.Sprintf("<b>Last price:</b> %s\n", lastPrice))
    sb.WriteString(fmt.Sprintf("<b>Price target:</b> %s\n\n", view.TargetPrice.String()))
  }

  return strings.TrimRight(sb.String(), "\n")
}
