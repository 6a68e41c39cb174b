package billing

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"crm-backend/models"
	"crm-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContractNet computes Σ price × quantity over the requested service lines.
// Pure apart from the lookup; a missing service fails the whole call.
func ContractNet(lookup ServiceLookup, lines []Line) (decimal.Decimal, error) {
	net := decimal.Zero
	for i, line := range lines {
		qty := line.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return decimal.Zero, Invalid("invalid quantity at index %d", i)
		}

		svc, err := lookup(line.ServiceId)
		if err != nil {
			return decimal.Zero, err
		}
		if svc == nil {
			return decimal.Zero, NotFound("service")
		}

		net = net.Add(svc.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return net.Round(2), nil
}

// AttachServices swaps a contract's whole service set for the given lines and
// recomputes the net amount unless overrideNet is given. Any invalid service
// aborts the call; prior links survive via rollback of the caller's
// transaction.
func AttachServices(tx *gorm.DB, contract *models.Contract, lines []Line, overrideNet *decimal.Decimal) error {
	if err := tx.Where("contract_id = ?", contract.Id).Delete(&models.ContractService{}).Error; err != nil {
		return err
	}

	net, err := ContractNet(CatalogFromDB(tx), lines)
	if err != nil {
		return err
	}

	links := make([]models.ContractService, 0, len(lines))
	for _, line := range lines {
		qty := line.Quantity
		if qty == 0 {
			qty = 1
		}
		links = append(links, models.ContractService{
			ContractId: contract.Id,
			ServiceId:  line.ServiceId,
			Quantity:   qty,
		})
	}
	if len(links) > 0 {
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}

	if overrideNet != nil {
		net = overrideNet.Round(2)
	}
	contract.Services = links
	contract.NetAmount = net

	return tx.Model(&models.Contract{}).Where("id = ?", contract.Id).
		Update("net_amount", net).Error
}

// RenderedDocument is a filled template ready to stream back; nothing is
// persisted.
type RenderedDocument struct {
	FileName    string
	ContentType string
	Data        []byte
}

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// RenderDocument fills the template's placeholder tokens with contract,
// customer, and company-settings data. Contract, template, and the template
// file must all exist. now is injected so rendering stays deterministic.
func RenderDocument(db *gorm.DB, contractID, templateID uint, now time.Time) (*RenderedDocument, error) {
	var contract models.Contract
	if err := db.First(&contract, contractID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("contract")
		}
		return nil, err
	}

	var customer models.Customer
	if err := db.First(&customer, contract.CustomerId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("customer")
		}
		return nil, err
	}

	var template models.Template
	if err := db.First(&template, templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("template")
		}
		return nil, err
	}

	if !FileExists(template.FilePath) {
		return nil, NotFound("template file")
	}

	settings, err := LoadSettings(db)
	if err != nil {
		return nil, err
	}

	tokens := TokenMap(&contract, &customer, settings, now)

	src, err := os.ReadFile(template.FilePath)
	if err != nil {
		return nil, err
	}

	doc := &RenderedDocument{}
	if strings.HasSuffix(strings.ToLower(template.FileName), ".docx") {
		doc.Data, err = ReplaceTokensDocx(src, tokens)
		if err != nil {
			return nil, err
		}
		doc.ContentType = docxContentType
		doc.FileName = documentFileName(&contract, now, ".docx")
	} else {
		doc.Data = []byte(ReplaceTokens(string(src), tokens))
		doc.ContentType = "text/plain; charset=utf-8"
		doc.FileName = documentFileName(&contract, now, ".txt")
	}

	return doc, nil
}

// FileExists reports whether the template file is resolvable on storage.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadSettings reads the key/value settings table into a map.
func LoadSettings(db *gorm.DB) (map[string]string, error) {
	var rows []models.Setting
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, s := range rows {
		out[s.Key] = s.Value
	}
	return out, nil
}

func settingOr(settings map[string]string, key, def string) string {
	if v, ok := settings[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// TokenMap builds the placeholder → value mapping used for document
// rendering. Dates are dd.mm.yyyy; monetary values carry two decimal places.
func TokenMap(contract *models.Contract, customer *models.Customer, settings map[string]string, now time.Time) map[string]string {
	number := contract.ContractNumber
	if number == "" {
		prefix := settingOr(settings, "ContractPrefix", "UM")
		number = fmt.Sprintf("%s/%d/%d", prefix, now.Year(), contract.Id)
	}

	customerName := customer.Company
	if customerName == "" {
		customerName = customer.Name
	}

	signed := contract.SignedAt
	if signed == nil {
		signed = &now
	}

	paymentTerm := settingOr(settings, "PaymentTermDefault", "14")
	if contract.PaymentTermDays != nil {
		paymentTerm = fmt.Sprintf("%d", *contract.PaymentTermDays)
	}

	return map[string]string{
		"CONTRACT_NUMBER":         number,
		"CONTRACT_TITLE":          contract.Title,
		"SIGNED_DATE":             utils.FormatDate(signed),
		"START_DATE":              utils.FormatDate(contract.StartDate),
		"END_DATE":                utils.FormatDate(contract.EndDate),
		"CURRENT_DATE":            now.Format(utils.DocumentDateLayout),
		"NET_AMOUNT":              utils.FormatAmount(contract.NetAmount),
		"PAYMENT_TERM_DAYS":       paymentTerm,
		"SCOPE_OF_SERVICES":       contract.ScopeOfServices,
		"PLACE_OF_SIGNING":        contract.PlaceOfSigning,
		"CUSTOMER_NAME":           customerName,
		"CUSTOMER_ADDRESS":        customer.Address,
		"CUSTOMER_NIP":            customer.NIP,
		"CUSTOMER_REPRESENTATIVE": customer.Representative,
		"CUSTOMER_EMAIL":          customer.Email,
		"CUSTOMER_PHONE":          customer.Phone,
		"COMPANY_NAME":            settingOr(settings, "CompanyName", ""),
		"COMPANY_ADDRESS":         settingOr(settings, "CompanyAddress", ""),
		"COMPANY_NIP":             settingOr(settings, "CompanyNIP", ""),
		"COMPANY_BANK_ACCOUNT":    settingOr(settings, "CompanyBankAccount", ""),
	}
}

func documentFileName(contract *models.Contract, now time.Time, ext string) string {
	number := contract.ContractNumber
	if number == "" {
		number = fmt.Sprintf("%d", contract.Id)
	}
	number = strings.ReplaceAll(number, "/", "-")
	return fmt.Sprintf("umowa_%s_%s%s", number, now.Format("20060102"), ext)
}
