package domain

import (
	"fmt"
	"strings"
)

// Format é o formato do conteúdo do documento.
type Format string

const (
	FormatManual Format = "MANUAL"
	FormatXML    Format = "XML"
	FormatCSV    Format = "CSV"
)

// Group é o grupo de produtos ao qual o documento pertence.
type Group string

const (
	GroupClothes     Group = "CLOTHES"
	GroupShoes       Group = "SHOES"
	GroupTobacco     Group = "TOBACCO"
	GroupPerfumery   Group = "PERFUMERY"
	GroupTires       Group = "TIRES"
	GroupElectronics Group = "ELECTRONICS"
	GroupPharma      Group = "PHARMA"
	GroupMilk        Group = "MILK"
	GroupBicycle     Group = "BICYCLE"
	GroupWheelchairs Group = "WHEELCHAIRS"
)

// APIValue é o valor usado no parâmetro `pg` e no campo product_group.
func (g Group) APIValue() string { return strings.ToLower(string(g)) }

// Type é o tipo de operação do registro (ex: LP_INTRODUCE_GOODS).
type Type string

const (
	TypeAggregationDocument         Type = "AGGREGATION_DOCUMENT"
	TypeAggregationDocumentCSV      Type = "AGGREGATION_DOCUMENT_CSV"
	TypeAggregationDocumentXML      Type = "AGGREGATION_DOCUMENT_XML"
	TypeDisaggregationDocument      Type = "DISAGGREGATION_DOCUMENT"
	TypeDisaggregationDocumentCSV   Type = "DISAGGREGATION_DOCUMENT_CSV"
	TypeDisaggregationDocumentXML   Type = "DISAGGREGATION_DOCUMENT_XML"
	TypeReaggregationDocument       Type = "REAGGREGATION_DOCUMENT"
	TypeReaggregationDocumentCSV    Type = "REAGGREGATION_DOCUMENT_CSV"
	TypeReaggregationDocumentXML    Type = "REAGGREGATION_DOCUMENT_XML"
	TypeLPIntroduceGoods            Type = "LP_INTRODUCE_GOODS"
	TypeLPShipGoods                 Type = "LP_SHIP_GOODS"
	TypeLPShipGoodsCSV              Type = "LP_SHIP_GOODS_CSV"
	TypeLPShipGoodsXML              Type = "LP_SHIP_GOODS_XML"
	TypeLPAcceptGoods               Type = "LP_ACCEPT_GOODS"
	TypeLPAcceptGoodsXML            Type = "LP_ACCEPT_GOODS_XML"
	TypeLKRemark                    Type = "LK_REMARK"
	TypeLKRemarkCSV                 Type = "LK_REMARK_CSV"
	TypeLKRemarkXML                 Type = "LK_REMARK_XML"
	TypeLKReceipt                   Type = "LK_RECEIPT"
	TypeLKReceiptXML                Type = "LK_RECEIPT_XML"
	TypeLKReceiptCSV                Type = "LK_RECEIPT_CSV"
	TypeLPGoodsImport               Type = "LP_GOODS_IMPORT"
	TypeLPGoodsImportCSV            Type = "LP_GOODS_IMPORT_CSV"
	TypeLPGoodsImportXML            Type = "LP_GOODS_IMPORT_XML"
	TypeLPCancelShipment            Type = "LP_CANCEL_SHIPMENT"
	TypeLPCancelShipmentCSV         Type = "LP_CANCEL_SHIPMENT_CSV"
	TypeLPCancelShipmentXML         Type = "LP_CANCEL_SHIPMENT_XML"
	TypeLKKMCancellation            Type = "LK_KM_CANCELLATION"
	TypeLKKMCancellationCSV         Type = "LK_KM_CANCELLATION_CSV"
	TypeLKKMCancellationXML         Type = "LK_KM_CANCELLATION_XML"
	TypeLKAppliedKMCancellation     Type = "LK_APPLIED_KM_CANCELLATION"
	TypeLKAppliedKMCancellationCSV  Type = "LK_APPLIED_KM_CANCELLATION_CSV"
	TypeLKAppliedKMCancellationXML  Type = "LK_APPLIED_KM_CANCELLATION_XML"
	TypeLKContractCommissioning     Type = "LK_CONTRACT_COMMISSIONING"
	TypeLKContractCommissioningCSV  Type = "LK_CONTRACT_COMMISSIONING_CSV"
	TypeLKContractCommissioningXML  Type = "LK_CONTRACT_COMMISSIONING_XML"
	TypeLKIndiCommissioning         Type = "LK_INDI_COMMISSIONING"
	TypeLKIndiCommissioningCSV      Type = "LK_INDI_COMMISSIONING_CSV"
	TypeLKIndiCommissioningXML      Type = "LK_INDI_COMMISSIONING_XML"
	TypeLPShipReceipt               Type = "LP_SHIP_RECEIPT"
	TypeLPShipReceiptCSV            Type = "LP_SHIP_RECEIPT_CSV"
	TypeLPShipReceiptXML            Type = "LP_SHIP_RECEIPT_XML"
	TypeOSTDescription              Type = "OST_DESCRIPTION"
	TypeOSTDescriptionCSV           Type = "OST_DESCRIPTION_CSV"
	TypeOSTDescriptionXML           Type = "OST_DESCRIPTION_XML"
	TypeCrossborder                 Type = "CROSSBORDER"
	TypeCrossborderCSV              Type = "CROSSBORDER_CSV"
	TypeCrossborderXML              Type = "CROSSBORDER_XML"
	TypeLPIntroduceOST              Type = "LP_INTRODUCE_OST"
	TypeLPIntroduceOSTCSV           Type = "LP_INTRODUCE_OST_CSV"
	TypeLPIntroduceOSTXML           Type = "LP_INTRODUCE_OST_XML"
	TypeLPReturn                    Type = "LP_RETURN"
	TypeLPReturnCSV                 Type = "LP_RETURN_CSV"
	TypeLPReturnXML                 Type = "LP_RETURN_XML"
	TypeLPShipGoodsCrossborder      Type = "LP_SHIP_GOODS_CROSSBORDER"
	TypeLPShipGoodsCrossborderCSV   Type = "LP_SHIP_GOODS_CROSSBORDER_CSV"
	TypeLPShipGoodsCrossborderXML   Type = "LP_SHIP_GOODS_CROSSBORDER_XML"
	TypeLPCancelShipmentCrossborder Type = "LP_CANCEL_SHIPMENT_CROSSBORDER"
)

var knownFormats = map[Format]struct{}{
	FormatManual: {}, FormatXML: {}, FormatCSV: {},
}

var knownGroups = map[Group]struct{}{
	GroupClothes: {}, GroupShoes: {}, GroupTobacco: {}, GroupPerfumery: {}, GroupTires: {},
	GroupElectronics: {}, GroupPharma: {}, GroupMilk: {}, GroupBicycle: {}, GroupWheelchairs: {},
}

var knownTypes = map[Type]struct{}{
	TypeAggregationDocument: {}, TypeAggregationDocumentCSV: {}, TypeAggregationDocumentXML: {},
	TypeDisaggregationDocument: {}, TypeDisaggregationDocumentCSV: {}, TypeDisaggregationDocumentXML: {},
	TypeReaggregationDocument: {}, TypeReaggregationDocumentCSV: {}, TypeReaggregationDocumentXML: {},
	TypeLPIntroduceGoods: {},
	TypeLPShipGoods:      {}, TypeLPShipGoodsCSV: {}, TypeLPShipGoodsXML: {},
	TypeLPAcceptGoods: {}, TypeLPAcceptGoodsXML: {},
	TypeLKRemark: {}, TypeLKRemarkCSV: {}, TypeLKRemarkXML: {},
	TypeLKReceipt: {}, TypeLKReceiptXML: {}, TypeLKReceiptCSV: {},
	TypeLPGoodsImport: {}, TypeLPGoodsImportCSV: {}, TypeLPGoodsImportXML: {},
	TypeLPCancelShipment: {}, TypeLPCancelShipmentCSV: {}, TypeLPCancelShipmentXML: {},
	TypeLKKMCancellation: {}, TypeLKKMCancellationCSV: {}, TypeLKKMCancellationXML: {},
	TypeLKAppliedKMCancellation: {}, TypeLKAppliedKMCancellationCSV: {}, TypeLKAppliedKMCancellationXML: {},
	TypeLKContractCommissioning: {}, TypeLKContractCommissioningCSV: {}, TypeLKContractCommissioningXML: {},
	TypeLKIndiCommissioning: {}, TypeLKIndiCommissioningCSV: {}, TypeLKIndiCommissioningXML: {},
	TypeLPShipReceipt: {}, TypeLPShipReceiptCSV: {}, TypeLPShipReceiptXML: {},
	TypeOSTDescription: {}, TypeOSTDescriptionCSV: {}, TypeOSTDescriptionXML: {},
	TypeCrossborder: {}, TypeCrossborderCSV: {}, TypeCrossborderXML: {},
	TypeLPIntroduceOST: {}, TypeLPIntroduceOSTCSV: {}, TypeLPIntroduceOSTXML: {},
	TypeLPReturn: {}, TypeLPReturnCSV: {}, TypeLPReturnXML: {},
	TypeLPShipGoodsCrossborder: {}, TypeLPShipGoodsCrossborderCSV: {}, TypeLPShipGoodsCrossborderXML: {},
	TypeLPCancelShipmentCrossborder: {},
}

func (f Format) Known() bool {
	_, ok := knownFormats[f]
	return ok
}

func (g Group) Known() bool {
	_, ok := knownGroups[g]
	return ok
}

func (t Type) Known() bool {
	_, ok := knownTypes[t]
	return ok
}

// UnmarshalText aceita o nome do enum sem diferenciar maiúsculas/minúsculas.
// Usado ao carregar manifestos (YAML/JSON).
func (f *Format) UnmarshalText(b []byte) error {
	v := Format(strings.ToUpper(strings.TrimSpace(string(b))))
	if !v.Known() {
		return fmt.Errorf("unknown document format %q", string(b))
	}
	*f = v
	return nil
}

func (g *Group) UnmarshalText(b []byte) error {
	v := Group(strings.ToUpper(strings.TrimSpace(string(b))))
	if !v.Known() {
		return fmt.Errorf("unknown document group %q", string(b))
	}
	*g = v
	return nil
}

func (t *Type) UnmarshalText(b []byte) error {
	v := Type(strings.ToUpper(strings.TrimSpace(string(b))))
	if !v.Known() {
		return fmt.Errorf("unknown document type %q", string(b))
	}
	*t = v
	return nil
}

// Document é o documento a ser enviado.
//
// Pode ser montado aos poucos (literal, campo a campo). A completude só é
// verificada uma vez, em application.Validate, antes de qualquer serialização.
type Document struct {
	Format          Format `yaml:"format"`
	ProductDocument string `yaml:"product_document"`
	Group           Group  `yaml:"group"`
	Type            Type   `yaml:"type"`
}
