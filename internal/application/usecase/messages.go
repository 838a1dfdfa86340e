package usecase

import "time"

// Operator-facing copy for transfer notifications.
const (
	summarySending  = "Відправляємо коїни..."
	detailSending   = "ЛОЛкоїни ще в дорозі"
	summarySuccess  = "Це успіх!"
	detailSuccess   = "%s ЛОЛкоїн(ів) відправлено до користувача %s!"
	detailRefresh   = "Баланси буде оновлено автоматично за декілька секунд, зачекайте..."
	summaryFailure  = "От халепа!"
	detailGeneric   = "Щось сталося"
	explorerLinkLbl = "Подивитись транзакцію на NEAR Explorer"
)

const (
	progressDuration = 10 * time.Second
	successDuration  = 10 * time.Second
	failureDuration  = 5 * time.Second
)
