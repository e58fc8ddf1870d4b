package services

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moov-io/iso20022/pkg/common"
	"github.com/moov-io/iso20022/pkg/pacs_v08"

	"github.com/clearpay/ledger/internal/models"
)

// ISO20022Service maps completed transfers to ISO 20022 settlement messages.
type ISO20022Service struct{}

func NewISO20022Service() *ISO20022Service {
	return &ISO20022Service{}
}

// CreatePacs008 creates a pacs.008 FIToFICustomerCreditTransfer message for a
// completed transfer. Amounts are rendered in major units.
func (iso *ISO20022Service) CreatePacs008(t *models.Transfer) (*pacs_v08.FIToFICustomerCreditTransferV08, error) {
	if t.Status != models.TransferStatusCompleted {
		return nil, fmt.Errorf("transfer %d is not completed", t.ID)
	}

	msgId := uuid.New().String()
	creDtTm := time.Now()
	settlementDate := t.CreatedAt
	amount := float64(t.Amount) / 100
	transferRef := fmt.Sprintf("TRF-%d", t.ID)

	doc := &pacs_v08.FIToFICustomerCreditTransferV08{
		GrpHdr: pacs_v08.GroupHeader93{
			MsgId:   common.Max35Text(msgId),
			CreDtTm: common.ISODateTime(creDtTm),
			NbOfTxs: "1",
			TtlIntrBkSttlmAmt: &pacs_v08.ActiveCurrencyAndAmount{
				Ccy:   common.ActiveCurrencyCode(t.Currency),
				Value: amount,
			},
			IntrBkSttlmDt: (*common.ISODate)(&settlementDate),
			SttlmInf: pacs_v08.SettlementInstruction7{
				SttlmMtd: "CLRG", // Clearing
			},
		},
		CdtTrfTxInf: []pacs_v08.CreditTransferTransaction39{
			{
				PmtId: pacs_v08.PaymentIdentification7{
					InstrId:    &[]common.Max35Text{common.Max35Text(transferRef)}[0],
					EndToEndId: common.Max35Text(transferRef),
					TxId:       &[]common.Max35Text{common.Max35Text(transferRef)}[0],
				},
				IntrBkSttlmAmt: pacs_v08.ActiveCurrencyAndAmount{
					Ccy:   common.ActiveCurrencyCode(t.Currency),
					Value: amount,
				},
				IntrBkSttlmDt: (*common.ISODate)(&settlementDate),
				ChrgBr:        "SLEV",
				DbtrAgt: pacs_v08.BranchAndFinancialInstitutionIdentification6{
					FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
						BICFI: &[]common.BICFIDec2014Identifier{common.BICFIDec2014Identifier("CLEARPAY")}[0],
					},
				},
				Dbtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(fmt.Sprintf("ACCOUNT-%d", t.FromAccountID))}[0],
				},
				CdtrAgt: pacs_v08.BranchAndFinancialInstitutionIdentification6{
					FinInstnId: pacs_v08.FinancialInstitutionIdentification18{
						BICFI: &[]common.BICFIDec2014Identifier{common.BICFIDec2014Identifier("CLEARPAY")}[0],
					},
				},
				Cdtr: pacs_v08.PartyIdentification135{
					Nm: &[]common.Max140Text{common.Max140Text(fmt.Sprintf("ACCOUNT-%d", t.ToAccountID))}[0],
				},
			},
		},
	}

	return doc, nil
}

// CreatePacs002 creates a pacs.002 payment status report for a transfer.
func (iso *ISO20022Service) CreatePacs002(t *models.Transfer, status string) (*pacs_v08.FIToFIPaymentStatusReportV08, error) {
	msgId := uuid.New().String()
	creDtTm := time.Now()
	transferRef := fmt.Sprintf("TRF-%d", t.ID)

	doc := &pacs_v08.FIToFIPaymentStatusReportV08{
		GrpHdr: pacs_v08.GroupHeader53{
			MsgId:   common.Max35Text(msgId),
			CreDtTm: common.ISODateTime(creDtTm),
		},
		TxInfAndSts: []pacs_v08.PaymentTransaction80{
			{
				OrgnlInstrId:    &[]common.Max35Text{common.Max35Text(transferRef)}[0],
				OrgnlEndToEndId: &[]common.Max35Text{common.Max35Text(transferRef)}[0],
				OrgnlTxId:       &[]common.Max35Text{common.Max35Text(transferRef)}[0],
				TxSts:           &[]pacs_v08.ExternalPaymentTransactionStatus1Code{pacs_v08.ExternalPaymentTransactionStatus1Code(status)}[0], // ACSC, ACCP, RJCT
			},
		},
	}

	return doc, nil
}

// ConvertToXML converts an ISO 20022 document to an XML string.
func (iso *ISO20022Service) ConvertToXML(doc interface{}) (string, error) {
	xmlData, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal XML: %w", err)
	}
	return xml.Header + string(xmlData), nil
}
