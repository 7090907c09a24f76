package omie

// Compatibility tables for the resources the sync jobs consume. Each logical
// attribute lists the spellings observed across the ERP's endpoint versions,
// oldest first. Keeping them here makes the accepted set enumerable and
// testable instead of being scattered over call sites.

var CategoryFields = FieldTable{
	"codigo":    {"codigo", "cCodigo", "codigo_categoria"},
	"descricao": {"descricao", "cDescricao", "descricao_categoria"},
	"tipo":      {"tipo_categoria", "cTipo"},
	"inativa":   {"nao_exibir", "cInativa"},
}

var PartyFields = FieldTable{
	"codigo_cliente": {"codigo_cliente_omie", "nCodCli", "codigo_cliente"},
	"cpf_cnpj":       {"cnpj_cpf", "cCnpjCpf", "cpf_cnpj"},
	"razao_social":   {"razao_social", "cRazaoSocial", "nome_fantasia"},
	"email":          {"email", "cEmail"},
	"cidade":         {"cidade", "cCidade"},
	"estado":         {"estado", "cUF"},
	"alterado_em":    {"dAlt", "data_alteracao", "dDtAlt"},
}

var ProjectFields = FieldTable{
	"codigo_interno": {"codigo", "nCodProj", "codigo_projeto"},
	"codigo":         {"codInt", "cCodInt", "codigo_integracao"},
	"nome":           {"nome", "cNome", "nome_projeto"},
	"inativo":        {"inativo", "cInativo"},
}

var PayableFields = FieldTable{
	"codigo_lancamento": {"codigo_lancamento_omie", "nCodTitulo", "codigo_lancamento"},
	"codigo_cliente":    {"codigo_cliente_fornecedor", "nCodCliente", "codigo_cliente"},
	"codigo_projeto":    {"codigo_projeto", "nCodProjeto", "cod_projeto"},
	"codigo_categoria":  {"codigo_categoria", "cCodCateg"},
	"valor":             {"valor_documento", "nValorTitulo", "valor"},
	"status":            {"status_titulo", "cStatus"},
	"dt_emissao":        {"data_emissao", "dDtEmissao"},
	"dt_venc":           {"data_vencimento", "dDtVenc"},
	"dt_pagamento":      {"data_pagamento", "dDtPagamento"},
	"numero_documento":  {"numero_documento", "cNumDocFiscal", "numero_documento_fiscal"},
}

var MovementFields = FieldTable{
	"cod_mov_cc":       {"nCodMovCC", "cod_mov_cc", "nCodMovCCRepet"},
	"tp_lancamento":    {"cTipo", "tipo_lancamento", "cTpLancamento"},
	"natureza":         {"cNatureza", "natureza"},
	"cod_cliente":      {"nCodCliente", "codigo_cliente_fornecedor", "cod_cliente"},
	"cod_projeto":      {"cCodProjeto", "nCodProjeto", "cod_projeto"},
	"cod_categoria":    {"cCodCateg", "codigo_categoria", "cod_categoria"},
	"valor":            {"nValorMovCC", "nValorTitulo", "valor_documento", "valor"},
	"dt_emissao":       {"dDtEmissao", "data_emissao"},
	"dt_venc":          {"dDtVenc", "data_vencimento"},
	"dt_pagamento":     {"dDtPagamento", "data_pagamento"},
	"status":           {"cStatus", "status_titulo"},
	"descricao":        {"cObs", "observacao", "descricao"},
	"cod_titulo":       {"nCodTitulo", "codigo_lancamento_omie"},
	"cod_baixa":        {"nCodBaixa", "codigo_baixa"},
	"numero_documento": {"cNumDocFiscal", "numero_documento"},
	"numero_parcela":   {"cNumParcela", "numero_parcela"},
}
